package worker

import (
	"context"
	"log/slog"
	"time"
)

// SweepLeaseKey is the Redis key instances compete for before sweeping.
const SweepLeaseKey = "booking:sweep_lease"

type ExpiredLockSweeper interface {
	SweepExpired(ctx context.Context, showtimeID int) (int, error)
}

// LockSweeper periodically releases expired seat locks across all showtimes.
// Reads and writes already sweep lazily; this only shortens how long a stale
// lock is visible to clients that are not polling.
type LockSweeper struct {
	sweeper  ExpiredLockSweeper
	lease    *Lease
	interval time.Duration
	logger   *slog.Logger
}

// NewLockSweeper returns a sweeper that runs every interval. When lease is not
// nil a tick is skipped unless the lease can be acquired.
func NewLockSweeper(sweeper ExpiredLockSweeper, lease *Lease, interval time.Duration, logger *slog.Logger) *LockSweeper {
	return &LockSweeper{
		sweeper:  sweeper,
		lease:    lease,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled.
func (w *LockSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("lock sweeper started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("lock sweeper stopped")
			return
		case <-ticker.C:
			_, err := w.SweepOnce(ctx)
			if err != nil && ctx.Err() == nil {
				w.logger.Error("failed to sweep expired seat locks", "error", err)
			}
		}
	}
}

// SweepOnce runs a single sweep and reports how many seats it released.
func (w *LockSweeper) SweepOnce(ctx context.Context) (int, error) {
	if w.lease != nil {
		acquired, err := w.lease.Acquire(ctx)
		if err != nil {
			return 0, err
		}

		if !acquired {
			w.logger.Debug("sweep lease held by another instance, skipping")
			return 0, nil
		}

		defer func() {
			err := w.lease.Release(context.WithoutCancel(ctx))
			if err != nil {
				w.logger.Warn("failed to release sweep lease", "error", err)
			}
		}()
	}

	return w.sweeper.SweepExpired(ctx, 0)
}
