package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	environment "vpnctl-bot/internal/env"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, err := environment.Setup(ctx)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	logger := env.Logger
	logger.Info("starting vpnctl-bot")

	go func() {
		logger.Info("starting observability server", slog.String("addr", env.Servers.HTTP.Observability.Addr))
		if err := env.Servers.HTTP.Observability.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("observability server error", slog.Any("error", err))
		}
	}()

	if err := startTelegramBot(ctx, env); err != nil {
		logger.Error("starting telegram bot failed", slog.Any("error", err))
		return
	}

	if err := env.Services.WorkerManager.Start(); err != nil {
		logger.Error("starting workers failed", slog.Any("error", err))
		return
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("bot is running")
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), env.Config.ShutdownDuration)
	defer shutdownCancel()

	env.Services.WorkerManager.Stop()
	env.Clients.TelegramBot.Stop()

	if err := env.Servers.HTTP.Observability.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		logger.Error("observability server shutdown error", slog.Any("error", err))
	}

	for _, closer := range env.Closers {
		closer()
	}

	logger.Info("stopped")
}

func startTelegramBot(ctx context.Context, env *environment.Env) error {
	logger := env.Logger

	if err := env.Clients.TelegramBot.Start(ctx); err != nil {
		return err
	}

	if err := env.Services.TelegramRouter.SetupBotCommands(); err != nil {
		// Menu registration is cosmetic, keep going.
		logger.Error("setting up bot commands failed", slog.Any("error", err))
	}

	updates := env.Clients.TelegramBot.GetUpdates()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				// Each update gets its own goroutine so a slow API call
				// never blocks other operators; the router serializes
				// events from the same caller.
				go handleUpdate(ctx, env, update)
			}
		}
	}()

	return nil
}

func handleUpdate(ctx context.Context, env *environment.Env, update tgbotapi.Update) {
	logger := env.Logger

	updateCtx, cancel := context.WithTimeout(ctx, env.Config.Telegram.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling update", slog.Any("panic", r))
		}
	}()

	if err := env.Services.TelegramRouter.Route(updateCtx, &update); err != nil {
		logger.Error("update handling failed", slog.Any("error", err))
	}
}
