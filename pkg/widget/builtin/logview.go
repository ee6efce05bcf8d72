package builtin

import (
	"log/slog"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/logging"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// LogView tails the warning/error ring so recoverable failures (rejected
// configs, bad plugins) stay visible without breaking the frame.
type LogView struct {
	ring *logging.Ring
}

// NewLogView creates a log widget over the given ring.
func NewLogView(ring *logging.Ring) *LogView {
	return &LogView{ring: ring}
}

func (w *LogView) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, "log", focused)
	if inner.Empty() {
		return
	}
	entries := w.ring.Recent(inner.Height)
	if len(entries) == 0 {
		buf.SetString(inner.X+1, inner.Y, "no warnings", dimStyle)
		return
	}
	for i, e := range entries {
		if i >= inner.Height {
			break
		}
		style := textStyle
		if e.Level >= slog.LevelError {
			style = alertStyle
		}
		line := e.Time.Format("15:04:05") + " " + e.Message
		buf.SetString(inner.X+1, inner.Y+i, line, style)
	}
}

func (w *LogView) HandleInput(terminal.KeyEvent) bool { return false }

func (w *LogView) Tick(time.Duration) {}
