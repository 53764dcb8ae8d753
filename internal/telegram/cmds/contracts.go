package cmds

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnctl-bot/internal/vpnapi"
)

type (
	botApi interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
		Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	}

	systemService interface {
		SystemStatus(ctx context.Context) (*vpnapi.ServiceStatus, error)
		SystemInfo(ctx context.Context) (*vpnapi.SystemInfo, error)
	}

	userListService interface {
		ListUsers(ctx context.Context, protocol vpnapi.Protocol) ([]vpnapi.UserRecord, error)
		ListAllUsers(ctx context.Context) (map[string][]vpnapi.UserRecord, error)
	}

	trafficService interface {
		UserTraffic(ctx context.Context, username string) (*vpnapi.UserTraffic, error)
	}
)
