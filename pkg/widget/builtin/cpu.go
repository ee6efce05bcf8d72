package builtin

import (
	"fmt"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// historyWindows are the retained-sample counts the 'h' key cycles through.
var historyWindows = []int{30, 60, 120, 300}

// CPU plots a sparkline of recent samples.
//
// Keys (when focused):
//
//	h  cycle the history window (30, 60, 120, 300 samples)
//	p  toggle the current-value label
//	r  reset the history
type CPU struct {
	source  metrics.Sampler
	history []float64
	max     float64
	window  int
	percent bool
}

// NewCPU creates a cpu widget over the given sampler.
func NewCPU(s metrics.Sampler) *CPU {
	return &CPU{
		source:  s,
		window:  0,
		max:     100,
		percent: true,
	}
}

func (w *CPU) Tick(time.Duration) {
	p := w.source.Sample()
	if p.Max > 0 {
		w.max = p.Max
	}
	w.history = append(w.history, p.Value)
	limit := historyWindows[w.window]
	if len(w.history) > limit {
		w.history = w.history[len(w.history)-limit:]
	}
}

func (w *CPU) HandleInput(ev terminal.KeyEvent) bool {
	if ev.Key != terminal.KeyRune {
		return false
	}
	switch ev.Rune {
	case 'h':
		w.window = (w.window + 1) % len(historyWindows)
		limit := historyWindows[w.window]
		if len(w.history) > limit {
			w.history = w.history[len(w.history)-limit:]
		}
		return true
	case 'p':
		w.percent = !w.percent
		return true
	case 'r':
		w.history = w.history[:0]
		return true
	}
	return false
}

func (w *CPU) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	title := fmt.Sprintf("cpu [%ds]", historyWindows[w.window])
	inner := frame(buf, area, title, focused)
	if inner.Empty() {
		return
	}

	// Newest sample hugs the right edge.
	samples := w.history
	if len(samples) > inner.Width {
		samples = samples[len(samples)-inner.Width:]
	}
	x0 := inner.X + inner.Width - len(samples)
	for i, v := range samples {
		ratio := v / w.max
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		idx := int(ratio * float64(len(sparkRunes)-1))
		style := textStyle
		if ratio > 0.85 {
			style = alertStyle
		}
		buf.Set(x0+i, inner.Y+inner.Height-1, sparkRunes[idx], style)
	}

	if w.percent && len(w.history) > 0 {
		label := fmt.Sprintf("%5.1f%%", w.history[len(w.history)-1]/w.max*100)
		buf.SetString(inner.X+inner.Width-len(label), inner.Y, label, titleStyle)
	}
}
