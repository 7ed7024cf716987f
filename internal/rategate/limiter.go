package rategate

import (
	"context"
	"sync"
	"time"
)

const (
	// Window and threshold of the sliding request window.
	Window    = 60 * time.Second
	Threshold = 5

	// BlockDuration is how long an offending key stays blocked.
	BlockDuration = 300 * time.Second
)

// Decision is the outcome of a single rate check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter decides whether a key may proceed right now. Implementations
// must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type rateEntry struct {
	count          int
	firstRequestAt time.Time
	lastRequestAt  time.Time
	blocked        bool
	blockUntil     time.Time
}

// MemoryLimiter is the in-process sliding-window limiter. State is local
// to the instance; horizontal scale needs the Redis backend instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		l.entries[key] = &rateEntry{count: 1, firstRequestAt: now, lastRequestAt: now}
		return Decision{Allowed: true}, nil
	}

	e.lastRequestAt = now

	if e.blocked {
		if now.Before(e.blockUntil) {
			return Decision{RetryAfter: e.blockUntil.Sub(now)}, nil
		}
		// Block served; start over with a fresh window.
		e.blocked = false
		e.count = 1
		e.firstRequestAt = now
		return Decision{Allowed: true}, nil
	}

	if now.Sub(e.firstRequestAt) >= Window {
		e.count = 1
		e.firstRequestAt = now
		return Decision{Allowed: true}, nil
	}

	e.count++
	if e.count > Threshold {
		e.blocked = true
		e.blockUntil = now.Add(BlockDuration)
		return Decision{RetryAfter: BlockDuration}, nil
	}
	return Decision{Allowed: true}, nil
}

// Sweep drops entries whose last activity is older than twice the window.
// It only deletes; active counters and standing blocks are left alone, so
// it cannot race destructively with Allow.
func (l *MemoryLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if e.blocked && now.Before(e.blockUntil) {
			continue
		}
		if now.Sub(e.lastRequestAt) > 2*Window {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
