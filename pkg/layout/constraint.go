package layout

import "fmt"

// Kind identifies a sibling sizing strategy.
type Kind int

const (
	// KindFlex sizes a sibling proportionally to its weight out of the
	// extent left over after fixed and percentage siblings.
	KindFlex Kind = iota
	// KindPercentage sizes a sibling against the full parent extent.
	KindPercentage
	// KindFixed sizes a sibling to an absolute number of cells.
	KindFixed
)

// String returns the config-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFlex:
		return "flex"
	case KindPercentage:
		return "percentage"
	case KindFixed:
		return "fixed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Constraint is one sibling's sizing strategy. Exactly one Constraint
// belongs to each child of a split.
type Constraint struct {
	Kind  Kind
	Value int
}

// Flex creates a proportional constraint with the given weight.
func Flex(weight int) Constraint {
	return Constraint{Kind: KindFlex, Value: weight}
}

// Percentage creates a constraint sized against the full parent extent.
func Percentage(pct int) Constraint {
	return Constraint{Kind: KindPercentage, Value: pct}
}

// Fixed creates an absolute-size constraint.
func Fixed(cells int) Constraint {
	return Constraint{Kind: KindFixed, Value: cells}
}

// Validate checks the constraint's value range.
func (c Constraint) Validate() error {
	switch c.Kind {
	case KindFlex:
		if c.Value <= 0 {
			return fmt.Errorf("flex weight must be positive, got %d", c.Value)
		}
	case KindPercentage:
		if c.Value < 0 || c.Value > 100 {
			return fmt.Errorf("percentage must be within 0-100, got %d", c.Value)
		}
	case KindFixed:
		if c.Value < 0 {
			return fmt.Errorf("fixed size must be non-negative, got %d", c.Value)
		}
	default:
		return fmt.Errorf("unknown constraint kind %d", int(c.Kind))
	}
	return nil
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s(%d)", c.Kind, c.Value)
}
