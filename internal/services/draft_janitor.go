package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DraftPruner is the slice of the draft store the janitor needs.
type DraftPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// JanitorConfig controls how often abandoned drafts are swept and how long a
// draft may sit untouched before it is dropped.
type JanitorConfig struct {
	SweepInterval time.Duration
	Retention     time.Duration
}

// DraftJanitor periodically removes drafts that have not been touched within
// the retention window. Saved entries live in Postgres; the draft store only
// carries in-progress form state, so pruning never loses journal content.
type DraftJanitor struct {
	drafts DraftPruner
	logger *zap.Logger
	cron   *cron.Cron
	cfg    JanitorConfig
}

func NewDraftJanitor(drafts DraftPruner, logger *zap.Logger, cfg JanitorConfig) *DraftJanitor {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &DraftJanitor{
		drafts: drafts,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.SweepInterval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.SweepInterval)
		defer cancel()
		if err := j.Sweep(ctx); err != nil {
			j.logger.Error("draft sweep failed", zap.Error(err))
		}
	})

	return j
}

// Start launches the cron scheduler.
func (j *DraftJanitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("draft janitor started",
		zap.Duration("sweep_interval", j.cfg.SweepInterval),
		zap.Duration("retention", j.cfg.Retention))
}

// Stop gracefully stops the scheduler.
func (j *DraftJanitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("draft janitor stopped")
}

// Sweep removes drafts untouched since the retention cutoff.
func (j *DraftJanitor) Sweep(ctx context.Context) error {
	if j == nil || j.drafts == nil {
		return nil
	}

	cutoff := time.Now().Add(-j.cfg.Retention)
	pruned, err := j.drafts.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if pruned > 0 {
		j.logger.Info("stale drafts pruned", zap.Int("count", pruned))
	}
	return nil
}
