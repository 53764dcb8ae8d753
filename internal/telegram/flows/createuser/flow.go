package createuser

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
	"vpnctl-bot/internal/telegram/states"
	"vpnctl-bot/internal/vpnapi"
)

// CallbackPrefix marks protocol selection payloads: create_<protocol>.
const CallbackPrefix = "create_"

type Handler struct {
	bot          botApi
	stateManager stateManager
	api          provisionService
	logger       *slog.Logger
}

func NewHandler(bot botApi, sm stateManager, api provisionService, logger *slog.Logger) *Handler {
	return &Handler{
		bot:          bot,
		stateManager: sm,
		api:          api,
		logger:       logger,
	}
}

// Start presents the protocol keyboard.
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

	msg := tgbotapi.NewMessage(chatID, messages.ChooseProtocolCreate)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := h.bot.Send(msg)
	return err
}

// HandleCallback records the chosen protocol and prompts for parameters.
// Selecting a protocol replaces any pending action the caller had.
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
		State:    states.CreateUserWaitParams,
		Protocol: protocol,
	})

	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, messages.FormatCreatePrompt(protocol))
	edit.ParseMode = "Markdown"
	_, err = h.bot.Send(edit)
	return err
}

// HandleText consumes the `username days` reply. Malformed input reprompts
// and keeps the pending action; a submission clears it whatever the outcome.
func (h *Handler) HandleText(ctx context.Context, update *tgbotapi.Update, pending states.Pending) error {
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 2 {
		return h.sendMarkdown(chatID, messages.InvalidParamsFormat)
	}

	days, err := strconv.Atoi(parts[1])
	if err != nil || days <= 0 {
		return h.sendMarkdown(chatID, messages.InvalidDays)
	}

	req := vpnapi.CreateUserRequest{
		Username: parts[0],
		Days:     days,
	}
	if pending.Protocol == vpnapi.ProtocolSSH {
		req.Password = GeneratePassword()
	}

	// Terminal submission: back to idle regardless of the call's outcome.
	h.stateManager.Clear(chatID)

	cfg, err := h.api.CreateUser(ctx, pending.Protocol, req)
	if err != nil {
		h.logger.Error("create user failed",
			slog.String("protocol", string(pending.Protocol)),
			slog.String("username", req.Username),
			slog.Any("error", err))
		msg := tgbotapi.NewMessage(chatID, messages.FormatCreateFailed(err))
		_, _ = h.bot.Send(msg)
		return err
	}

	return h.sendMarkdown(chatID, messages.FormatUserCreated(pending.Protocol, cfg))
}

func (h *Handler) sendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := h.bot.Send(msg)
	return err
}
