package cmds

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
)

type TrafficCommand struct {
	bot botApi
	api trafficService
}

func NewTrafficCommand(bot botApi, api trafficService) *TrafficCommand {
	return &TrafficCommand{
		bot: bot,
		api: api,
	}
}

// Execute handles `/traffic <username>`. A missing argument short-circuits
// with a usage message before any network call.
func (c *TrafficCommand) Execute(ctx context.Context, chatID int64, args string) error {
	username := strings.TrimSpace(args)
	if username == "" {
		msg := tgbotapi.NewMessage(chatID, messages.TrafficUsage)
		_, err := c.bot.Send(msg)
		return err
	}
	if fields := strings.Fields(username); len(fields) > 0 {
		username = fields[0]
	}

	traffic, err := c.api.UserTraffic(ctx, username)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, messages.FormatTrafficFailed(username))
		_, _ = c.bot.Send(msg)
		return fmt.Errorf("get traffic for %s: %w", username, err)
	}

	msg := tgbotapi.NewMessage(chatID, messages.FormatTraffic(traffic))
	msg.ParseMode = "Markdown"
	_, err = c.bot.Send(msg)
	return err
}
