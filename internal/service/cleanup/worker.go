// Package cleanup periodically removes expired refresh sessions.
package cleanup

import (
	"context"
	"time"

	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/metrics"
)

// SessionCleaner deletes expired sessions and reports how many were removed.
type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type Worker struct {
	cleaner  SessionCleaner
	interval time.Duration
}

func NewWorker(cleaner SessionCleaner, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{cleaner: cleaner, interval: interval}
}

// Run cleans once immediately and then on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	logging.Info().Dur("interval", w.interval).Msg("session cleanup worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runCleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("session cleanup worker stopped")
			return
		case <-ticker.C:
			w.runCleanup(ctx)
		}
	}
}

func (w *Worker) runCleanup(ctx context.Context) {
	deleted, err := w.cleaner.CleanupExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logging.Error().Err(err).Msg("failed to clean up expired sessions")
		}
		return
	}
	if deleted > 0 {
		metrics.SessionsCleaned.Add(float64(deleted))
		logging.Info().Int64("deleted", deleted).Msg("removed expired sessions")
	}
}
