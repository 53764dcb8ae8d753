package watchdog

import (
	"context"

	"vpnctl-bot/internal/vpnapi"
)

type (
	statusService interface {
		SystemStatus(ctx context.Context) (*vpnapi.ServiceStatus, error)
	}

	notifier interface {
		SendMessage(chatID int64, text string) error
	}
)
