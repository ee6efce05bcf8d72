package builtin

import (
	"fmt"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Gauge shows a single scalar as a horizontal bar with a used/total label.
// The memory widget is a gauge; anything sampling one value can reuse it.
type Gauge struct {
	title  string
	source metrics.Sampler
	last   metrics.Point
}

// NewGauge creates a gauge widget over the given sampler.
func NewGauge(title string, s metrics.Sampler) *Gauge {
	return &Gauge{title: title, source: s}
}

func (w *Gauge) Tick(time.Duration) {
	w.last = w.source.Sample()
}

func (w *Gauge) HandleInput(terminal.KeyEvent) bool { return false }

func (w *Gauge) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, w.title, focused)
	if inner.Empty() {
		return
	}
	ratio := 0.0
	if w.last.Max > 0 {
		ratio = w.last.Value / w.last.Max
	}
	style := textStyle
	if ratio > 0.9 {
		style = alertStyle
	}
	gaugeBar(buf, inner.X+1, inner.Y, inner.Width-2, ratio, style)
	if inner.Height > 1 {
		label := fmt.Sprintf("%s / %s (%.0f%%)",
			humanBytes(uint64(w.last.Value)), humanBytes(uint64(w.last.Max)), ratio*100)
		buf.SetString(inner.X+1, inner.Y+1, label, dimStyle)
	}
}
