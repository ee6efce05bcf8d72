// Package plugin loads dynamically supplied widget modules from a
// directory, registers their exported widget types, and manages module
// lifetime relative to the live instances built through them.
package plugin

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrABIVersion is returned for a module built against a different ABI.
	ErrABIVersion = errors.New("plugin ABI version mismatch")

	// ErrMissingSymbol is returned when a module lacks a required export.
	ErrMissingSymbol = errors.New("plugin missing required symbol")

	// ErrHandleStale is returned when instantiating through a module whose
	// file has been removed or replaced. Existing instances keep running;
	// only new instantiations fail.
	ErrHandleStale = errors.New("plugin handle is stale")
)

// Handle is the loaded-module record backing one or more widget types.
// Its liveness count tracks how many live widget instances were built
// through it; the module is retired only once that count reaches zero
// after a reload swap that no longer references it.
//
// Handles are mutated only on the event-loop goroutine.
type Handle struct {
	path       string
	abiVersion int
	names      []string
	modTime    time.Time
	liveness   int
	stale      bool
}

// Path returns the module file path.
func (h *Handle) Path() string { return h.path }

// Names returns the widget type names the module exported.
func (h *Handle) Names() []string { return h.names }

// Liveness returns the count of live instances backed by the module.
func (h *Handle) Liveness() int { return h.liveness }

// Stale reports whether the module file was removed or replaced.
func (h *Handle) Stale() bool { return h.stale }

// MarkStale flags the handle so new instantiations fail. Instances
// already built keep running until the next swap drops them.
func (h *Handle) MarkStale() { h.stale = true }

// Acquire increments liveness, or fails if the handle is stale.
func (h *Handle) Acquire() error {
	if h.stale {
		return fmt.Errorf("%w: %s", ErrHandleStale, h.path)
	}
	h.liveness++
	return nil
}

// Release decrements liveness.
func (h *Handle) Release() {
	if h.liveness > 0 {
		h.liveness--
	}
}

// Source identifies the module for logs.
func (h *Handle) Source() string { return h.path }
