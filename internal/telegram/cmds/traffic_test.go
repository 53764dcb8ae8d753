package cmds

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/messages"
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

type fakeTraffic struct {
	calls    int
	username string
}

func (f *fakeTraffic) UserTraffic(_ context.Context, username string) (*vpnapi.UserTraffic, error) {
	f.calls++
	f.username = username
	return &vpnapi.UserTraffic{Username: username, Upload: "1 GB", Download: "2 GB", Total: "3 GB"}, nil
}

func TestTrafficWithoutArgumentMakesNoCall(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "empty", args: ""},
		{name: "whitespace only", args: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{}
			api := &fakeTraffic{}
			c := NewTrafficCommand(bot, api)

			if err := c.Execute(context.Background(), 42, tt.args); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if api.calls != 0 {
				t.Errorf("UserTraffic calls = %d, want 0", api.calls)
			}
			if got := bot.lastText(t); got != messages.TrafficUsage {
				t.Errorf("reply = %q, want usage message", got)
			}
		})
	}
}

func TestTrafficQueriesFirstToken(t *testing.T) {
	bot := &fakeBot{}
	api := &fakeTraffic{}
	c := NewTrafficCommand(bot, api)

	if err := c.Execute(context.Background(), 42, "  john extra  "); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if api.calls != 1 || api.username != "john" {
		t.Errorf("UserTraffic called %d times with %q, want once with %q", api.calls, api.username, "john")
	}
	if !strings.Contains(bot.lastText(t), "Traffic Usage for john") {
		t.Errorf("reply = %q", bot.lastText(t))
	}
}
