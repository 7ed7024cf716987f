package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// Sweepable is implemented by stores with a delete-only maintenance pass.
type Sweepable interface {
	Sweep(now time.Time) int
}

// Sweeper periodically removes stale rate-limit entries. It is pure
// housekeeping: reads and writes never depend on it having run.
type Sweeper struct {
	Target   Sweepable
	Interval time.Duration
	Now      func() time.Time
}

func (s Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RunOnce performs a single sweep. Exposed so tests can drive the
// maintenance deterministically without a ticker.
func (s Sweeper) RunOnce() int {
	removed := s.Target.Sweep(s.now())
	if removed > 0 {
		utils.LogEvent("", "maintenance", "sweep", fmt.Sprintf("removed=%d", removed))
	}
	return removed
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}
