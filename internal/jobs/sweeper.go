// Package jobs runs houseledger's background maintenance work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mstannard/houseledger/internal/common"
)

// Purger is the single storage call the sweeper needs.
type Purger interface {
	PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

// SweeperConfig controls the retention sweep.
type SweeperConfig struct {
	// Retention is how long soft-deleted rows are kept before the sweep
	// removes them for good.
	Retention time.Duration
	// Interval is how often the sweep runs.
	Interval time.Duration
}

// Sweeper periodically hard-deletes soft-deleted rows older than the
// retention window.
type Sweeper struct {
	store  Purger
	cfg    SweeperConfig
	now    func() time.Time
	onDone chan struct{}
}

// NewSweeper creates a retention sweeper.
func NewSweeper(store Purger, cfg SweeperConfig) (*Sweeper, error) {
	if cfg.Retention <= 0 {
		return nil, fmt.Errorf("%w: retention must be positive", common.ErrInvalidConfig)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", common.ErrInvalidConfig)
	}
	return &Sweeper{
		store:  store,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		onDone: make(chan struct{}),
	}, nil
}

// Run sweeps once immediately, then on every interval tick until the context
// is canceled. A failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.onDone)

	slog.Info("retention sweeper started",
		"retention", s.cfg.Retention,
		"interval", s.cfg.Interval)

	s.sweep(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Done is closed when Run has returned.
func (s *Sweeper) Done() <-chan struct{} {
	return s.onDone
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.Retention)

	var purged int64
	err := common.WithRetry(ctx, func() error {
		var opErr error
		purged, opErr = s.store.PurgeSoftDeleted(ctx, cutoff)
		return opErr
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	})
	if err != nil {
		slog.Error("retention sweep failed", "cutoff", cutoff, "error", err)
		return
	}

	if purged > 0 {
		slog.Info("retention sweep purged rows", "rows", purged, "cutoff", cutoff)
	}
}
