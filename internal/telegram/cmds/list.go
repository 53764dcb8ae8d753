package cmds

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
	"vpnctl-bot/internal/vpnapi"
)

// CallbackPrefix marks list button payloads: list_<protocol> or list_all.
const CallbackPrefix = "list_"

type ListCommand struct {
	bot botApi
	api userListService
}

func NewListCommand(bot botApi, api userListService) *ListCommand {
	return &ListCommand{
		bot: bot,
		api: api,
	}
}

// Execute presents the protocol choices. Listing is a single-shot query, so
// no pending state is recorded.
func (c *ListCommand) Execute(ctx context.Context, chatID int64) error {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, protocol := range vpnapi.Protocols {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				strings.ToUpper(string(protocol)),
				CallbackPrefix+string(protocol),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("ALL USERS", CallbackPrefix+"all"),
	))

	msg := tgbotapi.NewMessage(chatID, messages.ChooseProtocolList)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := c.bot.Send(msg)
	return err
}

// HandleCallback resolves a list_* button press by querying the API and
// editing the keyboard message in place.
func (c *ListCommand) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	callback := tgbotapi.NewCallback(query.ID, "")
	_, _ = c.bot.Request(callback)

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	selection := strings.TrimPrefix(query.Data, CallbackPrefix)

	text, err := c.render(ctx, selection)
	if err != nil {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, messages.FormatListFailed(err))
		_, _ = c.bot.Send(edit)
		return fmt.Errorf("list %s: %w", selection, err)
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	_, err = c.bot.Send(edit)
	return err
}

func (c *ListCommand) render(ctx context.Context, selection string) (string, error) {
	if selection == "all" {
		grouped, err := c.api.ListAllUsers(ctx)
		if err != nil {
			return "", err
		}
		return messages.FormatAllUsers(grouped), nil
	}

	protocol, err := vpnapi.ParseProtocol(selection)
	if err != nil {
		return "", err
	}

	users, err := c.api.ListUsers(ctx, protocol)
	if err != nil {
		return "", err
	}
	return messages.FormatUserList(protocol, users), nil
}
