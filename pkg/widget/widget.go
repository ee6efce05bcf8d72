// Package widget defines the polymorphic widget contract shared by
// built-in and plugin-supplied widgets, and the registry that maps widget
// type names to factories.
package widget

import (
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Widget is the capability set every dashboard panel implements.
// Built-ins and plugins are symmetric: both sit behind this interface,
// constructed through a Factory held by the Registry.
type Widget interface {
	// Render draws the widget into its region of the shared frame buffer.
	// Widgets never perform device I/O.
	Render(buf *buffer.Buffer, area layout.Rect, focused bool)

	// HandleInput processes a key routed to the focused widget.
	// It reports whether the event was consumed.
	HandleInput(ev terminal.KeyEvent) bool

	// Tick advances widget state by the elapsed time since the last tick.
	Tick(elapsed time.Duration)
}

// FocusAware is implemented by widgets that react to focus transitions.
// Focus is the only state machine the core imposes on widgets.
type FocusAware interface {
	OnFocus()
	OnBlur()
}

// Factory constructs one widget instance.
type Factory func() Widget

// Owner is the loaded-module record backing a plugin-registered widget
// type. Built-in registrations have no owner. Acquire fails once the
// owner has been marked stale (its file disappeared or was retired).
type Owner interface {
	// Acquire increments the liveness count, or fails if stale.
	Acquire() error
	// Release decrements the liveness count.
	Release()
	// Source identifies the owning module for logs.
	Source() string
}
