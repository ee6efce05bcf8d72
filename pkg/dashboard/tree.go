// Package dashboard builds live widget trees from configuration and owns
// the active-dashboard swap: a rebuilt tree replaces the current one only
// after it has been constructed completely, so a failed build never tears
// down a working screen.
package dashboard

import (
	"fmt"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/widget"
)

// Tree is one instantiated dashboard: the solved-against layout root plus
// live widget instances in traversal order. Placement i from
// layout.SolveTree corresponds to instance i.
type Tree struct {
	name      string
	root      layout.Node
	instances []*widget.Instance
	focus     int
}

// BuildTree instantiates every widget the layout references. A failure
// (unknown name, stale plugin) releases the instances already built and
// returns the error; no partial tree escapes.
func BuildTree(name string, root layout.Node, reg *widget.Registry) (*Tree, error) {
	var instances []*widget.Instance
	for _, ref := range layout.WidgetNames(root) {
		inst, err := reg.Instantiate(ref)
		if err != nil {
			for _, built := range instances {
				built.Close()
			}
			return nil, fmt.Errorf("dashboard %q: %w", name, err)
		}
		instances = append(instances, inst)
	}

	t := &Tree{name: name, root: root, instances: instances}
	if len(instances) > 0 {
		instances[0].Focus()
	}
	return t, nil
}

// Name returns the dashboard name.
func (t *Tree) Name() string { return t.name }

// Root returns the layout tree the engine solves each frame.
func (t *Tree) Root() layout.Node { return t.root }

// Instances returns the live widgets in traversal order.
func (t *Tree) Instances() []*widget.Instance { return t.instances }

// Focused returns the widget holding input focus, or nil for an empty tree.
func (t *Tree) Focused() *widget.Instance {
	if len(t.instances) == 0 {
		return nil
	}
	return t.instances[t.focus]
}

// CycleFocus moves focus to the next widget in traversal order, wrapping
// past the last back to the first. Blur fires before Focus.
func (t *Tree) CycleFocus() {
	t.moveFocus(1)
}

// CycleFocusBack moves focus to the previous widget, wrapping.
func (t *Tree) CycleFocusBack() {
	t.moveFocus(-1)
}

func (t *Tree) moveFocus(delta int) {
	if len(t.instances) < 2 {
		return
	}
	t.instances[t.focus].Blur()
	t.focus = (t.focus + delta + len(t.instances)) % len(t.instances)
	t.instances[t.focus].Focus()
}

// Tick advances every widget in the tree.
func (t *Tree) Tick(elapsed time.Duration) {
	for _, inst := range t.instances {
		inst.Tick(elapsed)
	}
}

// Close blurs the focused widget and releases every instance.
func (t *Tree) Close() {
	if f := t.Focused(); f != nil {
		f.Blur()
	}
	for _, inst := range t.instances {
		inst.Close()
	}
}
