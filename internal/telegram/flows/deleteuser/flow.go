package deleteuser

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
	"vpnctl-bot/internal/telegram/states"
	"vpnctl-bot/internal/vpnapi"
)

// CallbackPrefix marks protocol selection payloads: delete_<protocol>.
const CallbackPrefix = "delete_"

type Handler struct {
	bot          botApi
	stateManager stateManager
	api          deleteService
	logger       *slog.Logger
}

func NewHandler(bot botApi, sm stateManager, api deleteService, logger *slog.Logger) *Handler {
	return &Handler{
		bot:          bot,
		stateManager: sm,
		api:          api,
		logger:       logger,
	}
}

func (h *Handler) Start(chatID int64) error {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, protocol := range vpnapi.Protocols {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				strings.ToUpper(string(protocol)),
				CallbackPrefix+string(protocol),
			),
		))
	}

	msg := tgbotapi.NewMessage(chatID, messages.ChooseProtocolDelete)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := h.bot.Send(msg)
	return err
}

func (h *Handler) HandleCallback(query *tgbotapi.CallbackQuery) error {
	callback := tgbotapi.NewCallback(query.ID, "")
	_, _ = h.bot.Request(callback)

	chatID := query.Message.Chat.ID
	raw := strings.TrimPrefix(query.Data, CallbackPrefix)

	protocol, err := vpnapi.ParseProtocol(raw)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, messages.UnknownProtocol)
		_, _ = h.bot.Send(msg)
		return err
	}

	h.stateManager.Set(chatID, states.Pending{
		State:    states.DeleteUserWaitName,
		Protocol: protocol,
	})

	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, messages.FormatDeletePrompt(protocol))
	edit.ParseMode = "Markdown"
	_, err = h.bot.Send(edit)
	return err
}

// HandleText consumes the single username token.
func (h *Handler) HandleText(ctx context.Context, update *tgbotapi.Update, pending states.Pending) error {
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 1 {
		return h.sendMarkdown(chatID, messages.InvalidUsername)
	}

	username := parts[0]
	h.stateManager.Clear(chatID)

	if err := h.api.DeleteUser(ctx, pending.Protocol, username); err != nil {
		h.logger.Error("delete user failed",
			slog.String("protocol", string(pending.Protocol)),
			slog.String("username", username),
			slog.Any("error", err))
		msg := tgbotapi.NewMessage(chatID, messages.FormatDeleteFailed(err))
		_, _ = h.bot.Send(msg)
		return err
	}

	return h.sendMarkdown(chatID, messages.FormatUserDeleted(pending.Protocol, username))
}

func (h *Handler) sendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := h.bot.Send(msg)
	return err
}
