package environment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"vpnctl-bot/internal/config"
	"vpnctl-bot/internal/telegram"
	"vpnctl-bot/internal/telegram/cmds"
	"vpnctl-bot/internal/telegram/flows/createuser"
	"vpnctl-bot/internal/telegram/flows/deleteuser"
	"vpnctl-bot/internal/telegram/flows/extenduser"
	"vpnctl-bot/internal/telegram/states"
	"vpnctl-bot/internal/vpnapi"
	"vpnctl-bot/internal/workers"
	"vpnctl-bot/internal/workers/watchdog"
)

type Services struct {
	Session        *vpnapi.Session
	VPN            *vpnapi.Service
	TelegramRouter *telegram.Router
	WorkerManager  *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	// One login per process. Failure here is fatal: without a token every
	// later call would be rejected anyway.
	session := vpnapi.NewSession(clients.VPNClient)
	if err := session.Login(ctx, cfg.API.Username, cfg.API.Password); err != nil {
		return nil, errors.Wrap(err, "authenticating against management api")
	}
	logger.Info("authenticated against management api", slog.String("username", cfg.API.Username))

	vpnService := vpnapi.NewService(session)

	stateManager := states.NewManager()
	accessChecker := telegram.NewAccessChecker(&cfg.Telegram)

	createHandler := createuser.NewHandler(clients.TelegramBot, stateManager, vpnService, logger)
	extendHandler := extenduser.NewHandler(clients.TelegramBot, stateManager, vpnService, logger)
	deleteHandler := deleteuser.NewHandler(clients.TelegramBot, stateManager, vpnService, logger)

	statusCommand := cmds.NewStatusCommand(clients.TelegramBot, vpnService)
	infoCommand := cmds.NewInfoCommand(clients.TelegramBot, vpnService)
	trafficCommand := cmds.NewTrafficCommand(clients.TelegramBot, vpnService)
	listCommand := cmds.NewListCommand(clients.TelegramBot, vpnService)

	router := telegram.NewRouter(
		clients.TelegramBot,
		stateManager,
		accessChecker,
		createHandler,
		extendHandler,
		deleteHandler,
		statusCommand,
		infoCommand,
		trafficCommand,
		listCommand,
		logger,
	)

	var workerList []workers.Worker
	if cfg.Watchdog.Enabled {
		workerList = append(workerList, watchdog.NewWorker(
			vpnService,
			clients.TelegramBot,
			cfg.Telegram.OperatorIDs,
			cfg.Watchdog.Schedule,
			logger.With(slog.String("component", "watchdog")),
		))
	}

	return &Services{
		Session:        session,
		VPN:            vpnService,
		TelegramRouter: router,
		WorkerManager:  workers.NewManager(logger, workerList...),
	}, nil
}
