package fetch

import (
	"context"
	"sync"
	"time"
)

// DefaultSpacing is the minimum wall-clock gap between the start of one
// provider request and the start of the next. The provider rate-limits on
// request issuance, not completion, so pacing "after the previous call
// returns" is not enough when a call fails fast.
const DefaultSpacing = 3 * time.Second

// Throttle is a stateful pacing gate shared by every request in a batch
// run. One instance serves the whole orchestrator lifetime.
type Throttle struct {
	spacing time.Duration

	mu   sync.Mutex
	next time.Time
	now  func() time.Time
}

// NewThrottle creates a gate with the given minimum spacing. A non-positive
// spacing disables pacing.
func NewThrottle(spacing time.Duration) *Throttle {
	return &Throttle{spacing: spacing, now: time.Now}
}

// Acquire blocks until the minimum spacing since the previous acquisition
// has elapsed, then reserves the current instant as this request's start.
// The first acquisition never waits. Returns early with ctx.Err() if the
// context is cancelled while waiting.
func (t *Throttle) Acquire(ctx context.Context) error {
	if t.spacing <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	now := t.now()
	start := now
	if t.next.After(now) {
		start = t.next
	}
	t.next = start.Add(t.spacing)
	t.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
