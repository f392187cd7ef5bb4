package link

import (
	"sync"
	"time"
)

// DefaultBackoff provides the stock reconnect policy.
func DefaultBackoff() Backoff {
	return Backoff{
		Base: time.Second,
		Max:  5 * time.Second,
	}
}

// Backoff defines the linear-capped reconnect delay policy.
type Backoff struct {
	// Base is the delay of the first retry attempt.
	Base time.Duration
	// Max caps the delay regardless of attempt number.
	Max time.Duration
}

// Next returns the delay before the given attempt (1-based):
// min(Base*attempt, Max). Monotonically non-decreasing up to the cap.
func (b Backoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	base := b.Base
	if base <= 0 {
		base = time.Second
	}
	max := b.Max
	if max <= 0 {
		max = 5 * time.Second
	}
	wait := base * time.Duration(attempt)
	if wait > max {
		return max
	}
	return wait
}

// retryTimer is a cancellable one-shot scheduled task. It decouples the
// scheduler from any specific runtime timer primitive; Schedule replaces any
// pending task so at most one retry is ever armed.
type retryTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arms fn to run once after d, cancelling any pending task first.
func (t *retryTimer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.timer != tm {
			// Replaced or cancelled while firing; the task no longer runs.
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
	t.timer = tm
}

// Cancel stops the pending task, if any. Safe to call repeatedly.
func (t *retryTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pending reports whether a task is armed.
func (t *retryTimer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}
