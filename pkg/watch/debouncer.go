// Package watch observes the configuration file and plugin directory and
// turns bursts of filesystem notifications into single reload events on a
// bounded queue. It is the only component that runs off the event-loop
// goroutine, and the queue is the only shared-mutable boundary.
package watch

import (
	"sync"
	"time"
)

// DefaultDebounce is the default coalescing window. Editors typically
// issue several writes per save; anything inside the window folds into
// one reload.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// When Trigger is called multiple times within the window, only the last
// callback runs, after the window elapses.
type Debouncer struct {
	window time.Duration
	timer  *time.Timer
	mu     sync.Mutex
}

// NewDebouncer creates a Debouncer with the given window.
// A zero window falls back to DefaultDebounce.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window}
}

// Trigger schedules callback after the window, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, callback)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Window returns the coalescing window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
