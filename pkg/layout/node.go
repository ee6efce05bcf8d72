package layout

import "fmt"

// Direction is the axis a split divides its extent along.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// String returns the config-facing name of the direction.
func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Node is one node of a layout tree: either a Split or a WidgetRef.
// Trees are pure nesting; nodes are never shared between parents.
type Node interface {
	nodeMarker()
}

// WidgetRef is a leaf naming a registered widget type.
type WidgetRef struct {
	Name string
}

func (WidgetRef) nodeMarker() {}

// Child pairs a node with the constraint that sizes it among its siblings.
type Child struct {
	Node       Node
	Constraint Constraint
}

// Split divides its rectangle among ordered children along a direction.
type Split struct {
	Direction Direction
	Children  []Child
}

func (*Split) nodeMarker() {}

// NewSplit creates a split node.
func NewSplit(dir Direction, children ...Child) *Split {
	return &Split{Direction: dir, Children: children}
}

// Validate checks the structural invariants of the tree rooted at n:
// every split has at least one child and every constraint is in range.
// Sibling percentages summing past 100 are deliberately not an error;
// the solver clamps them (overflow degrades, it never fails).
func Validate(n Node) error {
	switch node := n.(type) {
	case WidgetRef:
		if node.Name == "" {
			return fmt.Errorf("widget reference has empty name")
		}
		return nil
	case *Split:
		if len(node.Children) == 0 {
			return fmt.Errorf("%s split has no children", node.Direction)
		}
		for i, child := range node.Children {
			if err := child.Constraint.Validate(); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
			if err := Validate(child.Node); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
}

// Walk visits every WidgetRef under n in traversal order (depth-first,
// declaration order). This order defines the focus-cycle order.
func Walk(n Node, visit func(ref WidgetRef)) {
	switch node := n.(type) {
	case WidgetRef:
		visit(node)
	case *Split:
		for _, child := range node.Children {
			Walk(child.Node, visit)
		}
	}
}

// WidgetNames returns the names of every WidgetRef under n in traversal order.
func WidgetNames(n Node) []string {
	var names []string
	Walk(n, func(ref WidgetRef) {
		names = append(names, ref.Name)
	})
	return names
}
