package extenduser

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
	"vpnctl-bot/internal/telegram/states"
	"vpnctl-bot/internal/vpnapi"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	if len(b.sent) == 0 {
		t.Fatal("no messages sent")
	}
	if msg, ok := b.sent[len(b.sent)-1].(tgbotapi.MessageConfig); ok {
		return msg.Text
	}
	t.Fatalf("unexpected chattable type %T", b.sent[len(b.sent)-1])
	return ""
}

type fakeExtender struct {
	calls    int
	protocol vpnapi.Protocol
	username string
	days     int
	err      error
}

func (f *fakeExtender) ExtendUser(_ context.Context, protocol vpnapi.Protocol, username string, days int) error {
	f.calls++
	f.protocol = protocol
	f.username = username
	f.days = days
	return f.err
}

func textUpdate(chatID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: chatID},
		},
	}
}

func TestHandleTextExtendsAndClearsState(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	api := &fakeExtender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(bot, mgr, api, logger)

	pending := states.Pending{State: states.ExtendUserWaitParams, Protocol: vpnapi.ProtocolShadowsocks}
	mgr.Set(20, pending)

	if err := h.HandleText(context.Background(), textUpdate(20, "john 15"), pending); err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}

	if api.calls != 1 || api.protocol != vpnapi.ProtocolShadowsocks || api.username != "john" || api.days != 15 {
		t.Errorf("call = %+v", api)
	}
	if _, ok := mgr.Get(20); ok {
		t.Error("pending action survived submission")
	}
	if !strings.Contains(bot.lastText(t), "extended by 15 days") {
		t.Errorf("reply = %q", bot.lastText(t))
	}
}

func TestHandleTextRepromptsOnBadDays(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	api := &fakeExtender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(bot, mgr, api, logger)

	pending := states.Pending{State: states.ExtendUserWaitParams, Protocol: vpnapi.ProtocolSSH}
	mgr.Set(21, pending)

	if err := h.HandleText(context.Background(), textUpdate(21, "john zero"), pending); err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}

	if api.calls != 0 {
		t.Errorf("ExtendUser calls = %d, want 0", api.calls)
	}
	if _, ok := mgr.Get(21); !ok {
		t.Error("pending action dropped on reprompt")
	}
	if bot.lastText(t) != messages.InvalidDays {
		t.Errorf("reply = %q, want %q", bot.lastText(t), messages.InvalidDays)
	}
}
