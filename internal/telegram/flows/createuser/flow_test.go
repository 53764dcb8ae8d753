package createuser

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

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
	switch msg := b.sent[len(b.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return msg.Text
	case tgbotapi.EditMessageTextConfig:
		return msg.Text
	default:
		t.Fatalf("unexpected chattable type %T", msg)
		return ""
	}
}

type fakeProvisioner struct {
	calls    int
	protocol vpnapi.Protocol
	req      vpnapi.CreateUserRequest

	cfg *vpnapi.VPNConfig
	err error
}

func (f *fakeProvisioner) CreateUser(_ context.Context, protocol vpnapi.Protocol, req vpnapi.CreateUserRequest) (*vpnapi.VPNConfig, error) {
	f.calls++
	f.protocol = protocol
	f.req = req
	return f.cfg, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
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

func TestHandleTextSubmitsAndClearsState(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	api := &fakeProvisioner{cfg: &vpnapi.VPNConfig{Server: "vpn.example.com", Port: 443, Username: "john"}}
	h := NewHandler(bot, mgr, api, discardLogger())

	pending := states.Pending{State: states.CreateUserWaitParams, Protocol: vpnapi.ProtocolVMess}
	mgr.Set(10, pending)

	if err := h.HandleText(context.Background(), textUpdate(10, "john 30"), pending); err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}

	if api.calls != 1 {
		t.Fatalf("CreateUser calls = %d, want 1", api.calls)
	}
	if api.protocol != vpnapi.ProtocolVMess {
		t.Errorf("protocol = %q, want vmess", api.protocol)
	}
	if api.req.Username != "john" || api.req.Days != 30 {
		t.Errorf("request = %+v", api.req)
	}
	if api.req.Password != "" {
		t.Errorf("vmess request carries a generated password: %q", api.req.Password)
	}
	if _, ok := mgr.Get(10); ok {
		t.Error("pending action survived a terminal submission")
	}
	if !strings.Contains(bot.lastText(t), "User Created") {
		t.Errorf("reply = %q", bot.lastText(t))
	}
}

func TestHandleTextGeneratesSSHPassword(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	api := &fakeProvisioner{cfg: &vpnapi.VPNConfig{Server: "vpn.example.com", Port: 22, Username: "john"}}
	h := NewHandler(bot, mgr, api, discardLogger())

	pending := states.Pending{State: states.CreateUserWaitParams, Protocol: vpnapi.ProtocolSSH}
	mgr.Set(11, pending)

	if err := h.HandleText(context.Background(), textUpdate(11, "john 7"), pending); err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}

	if len(api.req.Password) != passwordLength {
		t.Fatalf("password length = %d, want %d", len(api.req.Password), passwordLength)
	}
	for _, r := range api.req.Password {
		if !strings.ContainsRune(passwordCharset, r) {
			t.Errorf("password contains %q outside charset", r)
		}
	}
}

func TestHandleTextRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantReply string
	}{
		{name: "missing days", input: "john", wantReply: messages.InvalidParamsFormat},
		{name: "too many tokens", input: "john 30 extra", wantReply: messages.InvalidParamsFormat},
		{name: "days not numeric", input: "john abc", wantReply: messages.InvalidDays},
		{name: "zero days", input: "john 0", wantReply: messages.InvalidDays},
		{name: "negative days", input: "john -5", wantReply: messages.InvalidDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{}
			mgr := states.NewManager()
			api := &fakeProvisioner{}
			h := NewHandler(bot, mgr, api, discardLogger())

			pending := states.Pending{State: states.CreateUserWaitParams, Protocol: vpnapi.ProtocolSSH}
			mgr.Set(12, pending)

			if err := h.HandleText(context.Background(), textUpdate(12, tt.input), pending); err != nil {
				t.Fatalf("HandleText() error = %v", err)
			}

			if api.calls != 0 {
				t.Errorf("CreateUser calls = %d, want 0", api.calls)
			}
			if got, ok := mgr.Get(12); !ok || got != pending {
				t.Errorf("pending action = %+v, %v; want retained for reprompt", got, ok)
			}
			if bot.lastText(t) != tt.wantReply {
				t.Errorf("reply = %q, want %q", bot.lastText(t), tt.wantReply)
			}
		})
	}
}

func TestHandleTextClearsStateOnAPIError(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	api := &fakeProvisioner{err: errors.New("quota exceeded")}
	h := NewHandler(bot, mgr, api, discardLogger())

	pending := states.Pending{State: states.CreateUserWaitParams, Protocol: vpnapi.ProtocolTrojan}
	mgr.Set(13, pending)

	if err := h.HandleText(context.Background(), textUpdate(13, "kate 14"), pending); err == nil {
		t.Fatal("HandleText() error = nil, want provisioning error")
	}

	if _, ok := mgr.Get(13); ok {
		t.Error("pending action survived a failed submission")
	}
	if !strings.Contains(bot.lastText(t), "Failed to create user") {
		t.Errorf("reply = %q", bot.lastText(t))
	}
}

func TestHandleCallbackSetsPending(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	h := NewHandler(bot, mgr, &fakeProvisioner{}, discardLogger())

	query := &tgbotapi.CallbackQuery{
		ID:   "q1",
		Data: CallbackPrefix + "trojan",
		From: &tgbotapi.User{ID: 14},
		Message: &tgbotapi.Message{
			MessageID: 100,
			Chat:      &tgbotapi.Chat{ID: 14},
		},
	}

	if err := h.HandleCallback(query); err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}

	pending, ok := mgr.Get(14)
	if !ok {
		t.Fatal("no pending action recorded")
	}
	if pending.State != states.CreateUserWaitParams || pending.Protocol != vpnapi.ProtocolTrojan {
		t.Errorf("pending = %+v", pending)
	}
	if !strings.Contains(bot.lastText(t), "TROJAN") {
		t.Errorf("prompt = %q", bot.lastText(t))
	}
}

func TestHandleCallbackRejectsUnknownProtocol(t *testing.T) {
	bot := &fakeBot{}
	mgr := states.NewManager()
	h := NewHandler(bot, mgr, &fakeProvisioner{}, discardLogger())

	query := &tgbotapi.CallbackQuery{
		ID:   "q2",
		Data: CallbackPrefix + "wireguard",
		From: &tgbotapi.User{ID: 15},
		Message: &tgbotapi.Message{
			MessageID: 101,
			Chat:      &tgbotapi.Chat{ID: 15},
		},
	}

	if err := h.HandleCallback(query); err == nil {
		t.Fatal("HandleCallback() error = nil, want unknown protocol error")
	}
	if _, ok := mgr.Get(15); ok {
		t.Error("pending action recorded for unknown protocol")
	}
}
