package cmds

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
)

type InfoCommand struct {
	bot botApi
	api systemService
}

func NewInfoCommand(bot botApi, api systemService) *InfoCommand {
	return &InfoCommand{
		bot: bot,
		api: api,
	}
}

func (c *InfoCommand) Execute(ctx context.Context, chatID int64) error {
	info, err := c.api.SystemInfo(ctx)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, messages.FormatInfoFailed(err))
		_, _ = c.bot.Send(msg)
		return fmt.Errorf("get system info: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, messages.FormatSystemInfo(info))
	msg.ParseMode = "Markdown"
	_, err = c.bot.Send(msg)
	return err
}
