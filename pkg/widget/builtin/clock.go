package builtin

import (
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Clock shows the current time and date. A FixedClock source makes its
// frames reproducible in tests.
type Clock struct {
	clock metrics.Clock
}

// NewClock creates a clock widget over the given time source.
func NewClock(c metrics.Clock) *Clock {
	return &Clock{clock: c}
}

func (w *Clock) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, "clock", focused)
	if inner.Empty() {
		return
	}
	now := w.clock.Now()
	buf.SetString(inner.X+1, inner.Y, now.Format("15:04:05"), titleStyle)
	if inner.Height > 1 {
		buf.SetString(inner.X+1, inner.Y+1, now.Format("Mon 2006-01-02"), dimStyle)
	}
}

func (w *Clock) HandleInput(terminal.KeyEvent) bool { return false }

func (w *Clock) Tick(time.Duration) {}

// Text shows a fixed title and message. It doubles as the help strip.
type Text struct {
	title string
	body  string
}

// NewText creates a static text widget.
func NewText(title, body string) *Text {
	return &Text{title: title, body: body}
}

func (w *Text) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, w.title, focused)
	if inner.Empty() {
		return
	}
	buf.SetString(inner.X+1, inner.Y, w.body, textStyle)
}

func (w *Text) HandleInput(terminal.KeyEvent) bool { return false }

func (w *Text) Tick(time.Duration) {}
