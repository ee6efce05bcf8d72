package widget

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Instance is one live widget on a dashboard: the widget state plus the
// registration it was built from. Instances are owned exclusively by the
// dashboard manager's active tree and are closed wholesale on swap.
type Instance struct {
	id      string
	name    string
	widget  Widget
	owner   Owner
	focused bool
	closed  bool
}

// ID returns the instance's unique identifier.
func (in *Instance) ID() string { return in.id }

// TypeName returns the registered widget type name the instance was built from.
func (in *Instance) TypeName() string { return in.name }

// Render draws the instance into its area.
func (in *Instance) Render(buf *buffer.Buffer, area layout.Rect) {
	in.widget.Render(buf, area, in.focused)
}

// HandleInput routes a key event to the widget.
func (in *Instance) HandleInput(ev terminal.KeyEvent) bool {
	return in.widget.HandleInput(ev)
}

// Tick advances the widget state.
func (in *Instance) Tick(elapsed time.Duration) {
	in.widget.Tick(elapsed)
}

// Focused reports whether the instance currently has focus.
func (in *Instance) Focused() bool { return in.focused }

// Focus marks the instance focused, firing OnFocus when implemented.
func (in *Instance) Focus() {
	if in.focused {
		return
	}
	in.focused = true
	if fa, ok := in.widget.(FocusAware); ok {
		fa.OnFocus()
	}
}

// Blur removes focus, firing OnBlur when implemented.
func (in *Instance) Blur() {
	if !in.focused {
		return
	}
	in.focused = false
	if fa, ok := in.widget.(FocusAware); ok {
		fa.OnBlur()
	}
}

// Close releases the instance's hold on its owning module. Idempotent.
func (in *Instance) Close() {
	if in.closed {
		return
	}
	in.closed = true
	if in.owner != nil {
		in.owner.Release()
	}
}

func newInstance(name string, w Widget, owner Owner) *Instance {
	return &Instance{
		id:     ulid.Make().String(),
		name:   name,
		widget: w,
		owner:  owner,
	}
}
