package query

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of triggers into one callback after a quiet
// period. It is deliberately decoupled from any UI or handler lifecycle so
// its cancellation semantics can be tested in isolation.
type Debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	timer *time.Timer
}

func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{d: d}
}

// Trigger schedules fn after the quiet period, replacing any pending call.
// A non-positive quiet period runs fn synchronously.
func (b *Debouncer) Trigger(fn func()) {
	if b == nil || b.d <= 0 {
		fn()
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, fn)
}

// Stop cancels any pending callback.
func (b *Debouncer) Stop() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
