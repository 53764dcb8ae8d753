package workers

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Manager starts and stops a fixed set of workers in order.
type Manager struct {
	workers []Worker
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger, workers ...Worker) *Manager {
	return &Manager{
		workers: workers,
		logger:  logger,
	}
}

func (m *Manager) Start() error {
	m.logger.Info("starting workers", slog.Int("worker_count", len(m.workers)))

	for _, worker := range m.workers {
		if err := worker.Start(); err != nil {
			return errors.Wrapf(err, "starting worker %s", worker.Name())
		}
		m.logger.Info("worker started", slog.String("name", worker.Name()))
	}

	return nil
}

func (m *Manager) Stop() {
	for _, worker := range m.workers {
		m.logger.Info("stopping worker", slog.String("name", worker.Name()))
		worker.Stop()
	}
}
