package layout

import "sort"

// Placement is one widget's resolved rectangle.
type Placement struct {
	Name string
	Area Rect
}

// Solve divides area among siblings along dir, one rectangle per constraint.
// The rectangles are non-overlapping and their union equals area exactly.
//
// The algorithm is deterministic and two-pass:
//
//  1. Fixed sizes are taken literally; percentage sizes are computed
//     against the full parent extent.
//  2. If fixed+percentage overflow the extent, all of them are scaled
//     down proportionally until they fit exactly (overflow degrades, it
//     never errors: a terminal UI must always render something).
//  3. The remaining extent goes to flex siblings proportional to weight.
//     Leftover integer cells are granted one per sibling, highest weight
//     first, ties broken by ascending sibling index.
//
// A single sibling always receives the entire extent regardless of its
// constraint kind. A zero extent yields all-zero rectangles.
func Solve(area Rect, dir Direction, constraints []Constraint) []Rect {
	if len(constraints) == 0 {
		return nil
	}

	extent := area.Width
	if dir == Vertical {
		extent = area.Height
	}

	sizes := splitExtent(extent, constraints)

	rects := make([]Rect, len(sizes))
	offset := 0
	for i, size := range sizes {
		if dir == Horizontal {
			rects[i] = Rect{X: area.X + offset, Y: area.Y, Width: size, Height: area.Height}
		} else {
			rects[i] = Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: size}
		}
		offset += size
	}
	return rects
}

// SolveTree resolves the whole tree rooted at root into one placement per
// WidgetRef, in traversal order.
func SolveTree(root Node, area Rect) []Placement {
	var out []Placement
	solveNode(root, area, &out)
	return out
}

func solveNode(n Node, area Rect, out *[]Placement) {
	switch node := n.(type) {
	case WidgetRef:
		*out = append(*out, Placement{Name: node.Name, Area: area})
	case *Split:
		constraints := make([]Constraint, len(node.Children))
		for i, child := range node.Children {
			constraints[i] = child.Constraint
		}
		rects := Solve(area, node.Direction, constraints)
		for i, child := range node.Children {
			solveNode(child.Node, rects[i], out)
		}
	}
}

// splitExtent computes the size of each sibling along the split axis.
// The sizes always sum to extent.
func splitExtent(extent int, constraints []Constraint) []int {
	sizes := make([]int, len(constraints))
	if extent <= 0 {
		return sizes
	}

	// A lone sibling owns the whole extent, whatever its constraint says.
	if len(constraints) == 1 {
		sizes[0] = extent
		return sizes
	}

	// Pass 1: fixed literally, percentage against the full extent.
	reservedTotal := 0
	hasFlex := false
	for i, c := range constraints {
		switch c.Kind {
		case KindFixed:
			sizes[i] = c.Value
			reservedTotal += sizes[i]
		case KindPercentage:
			sizes[i] = extent * clampPct(c.Value) / 100
			reservedTotal += sizes[i]
		case KindFlex:
			hasFlex = true
		}
	}

	if reservedTotal > extent {
		// Graceful degradation: scale fixed+percentage down proportionally,
		// apportioning so the clamped sizes still sum exactly to extent.
		clampProportionally(sizes, constraints, reservedTotal, extent)
		return sizes
	}

	remaining := extent - reservedTotal
	if hasFlex {
		distributeFlex(sizes, constraints, remaining)
	} else if remaining > 0 {
		// No flex sibling to absorb the slack; the last sibling takes it so
		// the union still covers the extent exactly.
		sizes[len(sizes)-1] += remaining
	}
	return sizes
}

// clampProportionally rescales every non-flex size from a total of
// reserved down to extent using largest-remainder apportionment, so the
// result is deterministic and sums exactly to extent.
func clampProportionally(sizes []int, constraints []Constraint, reserved, extent int) {
	type share struct {
		index int
		rem   int // numerator remainder of sizes[i]*extent/reserved
	}
	shares := make([]share, 0, len(sizes))
	total := 0
	for i, c := range constraints {
		if c.Kind == KindFlex {
			sizes[i] = 0
			continue
		}
		scaled := sizes[i] * extent
		sizes[i] = scaled / reserved
		total += sizes[i]
		shares = append(shares, share{index: i, rem: scaled % reserved})
	}
	// Hand out the cells lost to flooring, largest fractional part first,
	// ties by ascending sibling index.
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].rem > shares[b].rem
	})
	for i := 0; total < extent && i < len(shares); i++ {
		sizes[shares[i].index]++
		total++
	}
}

// distributeFlex divides remaining cells among flex siblings proportional
// to weight. Integer leftovers are granted one per sibling, highest weight
// first, ties by ascending sibling index.
func distributeFlex(sizes []int, constraints []Constraint, remaining int) {
	if remaining <= 0 {
		return
	}
	type flexItem struct {
		index  int
		weight int
	}
	var items []flexItem
	weightTotal := 0
	for i, c := range constraints {
		if c.Kind == KindFlex {
			items = append(items, flexItem{index: i, weight: c.Value})
			weightTotal += c.Value
		}
	}
	if weightTotal <= 0 {
		return
	}

	granted := 0
	for _, it := range items {
		sizes[it.index] = remaining * it.weight / weightTotal
		granted += sizes[it.index]
	}

	leftover := remaining - granted
	if leftover == 0 {
		return
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].weight > items[b].weight
	})
	for i := 0; leftover > 0; i = (i + 1) % len(items) {
		sizes[items[i].index]++
		leftover--
	}
}

func clampPct(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
