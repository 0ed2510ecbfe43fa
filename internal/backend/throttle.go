package backend

import (
	"context"
	"time"
)

// throttle keeps manual refreshes at least gap apart from the previous
// refresh of any kind. It is owned by the poll goroutine.
type throttle struct {
	gap  time.Duration
	last time.Time
	now  func() time.Time
}

func newThrottle(gap time.Duration) *throttle {
	return &throttle{gap: max(gap, 0), now: time.Now}
}

// mark records that a refresh has just started.
func (t *throttle) mark() {
	t.last = t.now()
}

// wait blocks until gap has passed since the last mark. It reports false
// when ctx ends first.
func (t *throttle) wait(ctx context.Context) bool {
	if t.last.IsZero() || t.gap == 0 {
		return ctx.Err() == nil
	}
	remaining := t.gap - t.now().Sub(t.last)
	if remaining <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
