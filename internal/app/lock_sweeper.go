package app

import (
	"context"
	"time"

	"github.com/riskibarqy/weekly-pool/internal/platform/logging"
)

const defaultLockSweepInterval = 30 * time.Second

type lockFlagSyncer interface {
	SyncLockFlags(ctx context.Context) (int, error)
}

// lockSweeper periodically persists the derived lock flag for current-week
// games so stored rows agree with the close-time rule.
type lockSweeper struct {
	syncer   lockFlagSyncer
	interval time.Duration
	logger   *logging.Logger
}

func newLockSweeper(syncer lockFlagSyncer, interval time.Duration, logger *logging.Logger) *lockSweeper {
	if interval <= 0 {
		interval = defaultLockSweepInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &lockSweeper{
		syncer:   syncer,
		interval: interval,
		logger:   logger.With("component", "lock_sweeper"),
	}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (s *lockSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *lockSweeper) sweep(ctx context.Context) {
	changed, err := s.syncer.SyncLockFlags(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.WarnContext(ctx, "lock flag sweep failed", "error", err)
		return
	}
	if changed > 0 {
		s.logger.InfoContext(ctx, "lock flags updated", "games", changed)
		return
	}
	s.logger.DebugContext(ctx, "lock flags in sync")
}
