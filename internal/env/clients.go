package environment

import (
	"log/slog"

	"github.com/pkg/errors"

	"vpnctl-bot/internal/config"
	"vpnctl-bot/internal/infra/telegram"
	"vpnctl-bot/internal/vpnapi"
)

type Clients struct {
	TelegramBot *telegram.Client
	VPNClient   *vpnapi.Client
}

func newClients(cfg config.Config, logger *slog.Logger) (*Clients, error) {
	telegramBot, err := telegram.NewClient(cfg.Telegram.BotToken, logger.With(slog.String("component", "telegram")))
	if err != nil {
		return nil, errors.Wrap(err, "telegram client")
	}

	vpnClient := vpnapi.NewClient(cfg.API, logger.With(slog.String("component", "vpnapi")))

	return &Clients{
		TelegramBot: telegramBot,
		VPNClient:   vpnClient,
	}, nil
}
