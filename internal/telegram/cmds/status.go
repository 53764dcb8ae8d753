package cmds

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
)

type StatusCommand struct {
	bot botApi
	api systemService
}

func NewStatusCommand(bot botApi, api systemService) *StatusCommand {
	return &StatusCommand{
		bot: bot,
		api: api,
	}
}

func (c *StatusCommand) Execute(ctx context.Context, chatID int64) error {
	status, err := c.api.SystemStatus(ctx)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, messages.FormatStatusFailed(err))
		_, _ = c.bot.Send(msg)
		return fmt.Errorf("get system status: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, messages.FormatServiceStatus(status))
	msg.ParseMode = "Markdown"
	_, err = c.bot.Send(msg)
	return err
}
