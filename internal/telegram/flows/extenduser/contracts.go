package extenduser

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/telegram/states"
	"vpnctl-bot/internal/vpnapi"
)

type (
	botApi interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
		Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	}

	stateManager interface {
		Set(chatID int64, p states.Pending)
		Clear(chatID int64)
	}

	extendService interface {
		ExtendUser(ctx context.Context, protocol vpnapi.Protocol, username string, days int) error
	}
)
