package watchdog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"vpnctl-bot/internal/vpnapi"
)

const pollTimeout = 15 * time.Second

// Worker polls the provisioning API service status on a schedule and
// notifies operators when a component transitions between up and down.
type Worker struct {
	api         statusService
	telegram    notifier
	operatorIDs []int64
	schedule    string
	logger      *slog.Logger
	cron        *cron.Cron

	mu       sync.Mutex
	known    map[string]bool
	apiDown  bool
	hasState bool
}

func NewWorker(
	api statusService,
	telegram notifier,
	operatorIDs []int64,
	schedule string,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		api:         api,
		telegram:    telegram,
		operatorIDs: operatorIDs,
		schedule:    schedule,
		logger:      logger,
		cron:        cron.New(),
		known:       make(map[string]bool),
	}
}

func (w *Worker) Name() string {
	return "watchdog"
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		defer cancel()
		w.poll(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "scheduling watchdog")
	}

	w.cron.Start()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("stopping watchdog worker")
	w.cron.Stop()
}

func (w *Worker) poll(ctx context.Context) {
	status, err := w.api.SystemStatus(ctx)
	if err != nil {
		w.logger.Warn("watchdog status poll failed", slog.Any("error", err))
		w.handleAPIFailure(err)
		return
	}

	w.handleAPIRecovery()

	components := map[string]bool{
		"ssh":           status.SSH,
		"nginx":         status.Nginx,
		"xray":          status.Xray,
		"dropbear":      status.Dropbear,
		"stunnel":       status.Stunnel,
		"ssh-websocket": status.SSHWebSocket,
	}

	w.mu.Lock()
	first := !w.hasState
	w.hasState = true

	var downs, ups []string
	for name, up := range components {
		prev, seen := w.known[name]
		w.known[name] = up

		if first || !seen {
			// Baseline run: only alert on components already down.
			if !up {
				downs = append(downs, name)
			}
			continue
		}
		if prev && !up {
			downs = append(downs, name)
		} else if !prev && up {
			ups = append(ups, name)
		}
	}
	w.mu.Unlock()

	for _, name := range downs {
		w.broadcast(fmt.Sprintf("🚨 Service *%s* is DOWN", name))
	}
	for _, name := range ups {
		w.broadcast(fmt.Sprintf("✅ Service *%s* recovered", name))
	}
}

func (w *Worker) handleAPIFailure(err error) {
	w.mu.Lock()
	wasDown := w.apiDown
	w.apiDown = true
	w.mu.Unlock()

	if wasDown {
		return
	}

	var appErr *vpnapi.ApplicationError
	if errors.As(err, &appErr) {
		w.broadcast(fmt.Sprintf("🚨 Status poll rejected: %s", appErr.Message))
		return
	}
	w.broadcast("🚨 Provisioning API is unreachable")
}

func (w *Worker) handleAPIRecovery() {
	w.mu.Lock()
	wasDown := w.apiDown
	w.apiDown = false
	w.mu.Unlock()

	if wasDown {
		w.broadcast("✅ Provisioning API is reachable again")
	}
}

func (w *Worker) broadcast(text string) {
	for _, operatorID := range w.operatorIDs {
		if err := w.telegram.SendMessage(operatorID, text); err != nil {
			w.logger.Error("watchdog notification failed",
				slog.Int64("operator_id", operatorID),
				slog.Any("error", err))
		}
	}
}
