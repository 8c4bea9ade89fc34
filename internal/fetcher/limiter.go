package fetcher

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces network requests by a minimum interval. One Limiter is shared
// by every Fetcher of a run. Callers reserve the next free slot under the
// mutex and sleep outside it, so concurrent callers queue up in order instead
// of all waking at the same instant.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	now      func() time.Time
	sleep    SleepFunc
}

// NewLimiter constructs a limiter. A non-positive interval disables waiting.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, now: time.Now, sleep: SleepWithContext}
}

// Wait blocks until the caller may issue a request.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	now := l.now()
	slot := now
	if l.next.After(now) {
		slot = l.next
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	return l.sleep(ctx, slot.Sub(now))
}

// Interval reports the configured spacing.
func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}
