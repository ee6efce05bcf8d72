// Package buffer provides the shared cell frame buffer widgets render into.
// Widgets write cells here and never touch the terminal device; the engine
// flushes the buffer to a backend once per frame.
package buffer

import (
	"github.com/mattn/go-runewidth"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/ui/backend"
)

// Cell represents a single character cell in the buffer.
type Cell struct {
	Rune  rune
	Style backend.Style
}

// Buffer is a 2D grid of cells.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// New creates a buffer with the given dimensions.
func New(w, h int) *Buffer {
	b := &Buffer{
		cells:  make([]Cell, w*h),
		width:  w,
		height: h,
	}
	b.Clear()
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the buffer dimensions and clears the content.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	b.cells = make([]Cell, w*h)
	b.width = w
	b.height = h
	b.Clear()
}

// Clear fills the buffer with spaces and default style.
func (b *Buffer) Clear() {
	b.Fill(layout.Rect{Width: b.width, Height: b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at position (x, y).
// Returns a blank cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' ', Style: backend.DefaultStyle()}
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at position (x, y). No-op if out of bounds.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: s}
}

// SetString writes a string starting at (x, y), advancing by display width
// so wide runes occupy two columns. Clips to buffer bounds.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) {
	if y < 0 || y >= b.height {
		return
	}
	px := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if px+w > b.width {
			break
		}
		if px >= 0 {
			b.cells[y*b.width+px] = Cell{Rune: r, Style: style}
			// Wide runes shadow the following column.
			for i := 1; i < w; i++ {
				b.cells[y*b.width+px+i] = Cell{Rune: 0, Style: style}
			}
		}
		px += w
	}
}

// Fill fills a rectangular region with a rune and style, clipped to bounds.
func (b *Buffer) Fill(r layout.Rect, ch rune, s backend.Style) {
	x0 := max(0, r.X)
	y0 := max(0, r.Y)
	x1 := min(b.width, r.X+r.Width)
	y1 := min(b.height, r.Y+r.Height)

	cell := Cell{Rune: ch, Style: s}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.cells[y*b.width+x] = cell
		}
	}
}

// DrawBox draws a border around a rect using box-drawing characters.
func (b *Buffer) DrawBox(r layout.Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	b.Set(r.X, r.Y, '┌', s)
	b.Set(r.X+r.Width-1, r.Y, '┐', s)
	b.Set(r.X, r.Y+r.Height-1, '└', s)
	b.Set(r.X+r.Width-1, r.Y+r.Height-1, '┘', s)

	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		b.Set(x, r.Y, '─', s)
		b.Set(x, r.Y+r.Height-1, '─', s)
	}
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		b.Set(r.X, y, '│', s)
		b.Set(r.X+r.Width-1, y, '│', s)
	}
}

// DrawTitledBox draws a border with a title embedded in the top edge.
func (b *Buffer) DrawTitledBox(r layout.Rect, title string, border, titleStyle backend.Style) {
	b.DrawBox(r, border)
	if title == "" || r.Width < 4 {
		return
	}
	avail := r.Width - 4
	if runewidth.StringWidth(title) > avail {
		title = runewidth.Truncate(title, avail, "…")
	}
	b.SetString(r.X+2, r.Y, title, titleStyle)
}

// Flush writes every cell to the backend. Cells shadowed by a wide rune
// (Rune == 0) are skipped; the terminal layer handles the overlap.
func (b *Buffer) Flush(be backend.Backend) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			if c.Rune == 0 {
				continue
			}
			be.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
	be.Show()
}
