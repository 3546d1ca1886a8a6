package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/mvaldivia/soltrack/internal/config"
)

// Scheduler runs the batch sync on a fixed interval, independent of
// request handling. On-demand syncs triggered through the API do not
// affect its cadence.
type Scheduler struct {
	syncService SyncServiceInterface
	cfg         config.SyncConfig
}

func NewScheduler(syncService SyncServiceInterface, cfg config.SyncConfig) *Scheduler {
	return &Scheduler{syncService: syncService, cfg: cfg}
}

// Run blocks until ctx is cancelled, firing a batch sync every interval.
// The first sync fires after one full interval, not at startup.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("sync scheduler started",
		"interval", s.cfg.Interval.String(),
		"lookback_days", s.cfg.DefaultLookbackDays)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.syncService.SyncAllOwners(ctx, s.cfg.DefaultLookbackDays)
		}
	}
}
