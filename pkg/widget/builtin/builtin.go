// Package builtin provides the widgets compiled into the binary: clock,
// text, log, cpu, memory, disk, network, process and git panels.
//
// Built-ins register before any plugin scan so their names always win
// collisions. Each draws a titled border and renders into the interior;
// the focused widget gets a highlighted border, unfocused ones a dim one.
package builtin

import (
	"fmt"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/logging"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/backend"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/widget"
)

// Sources bundles the data providers the built-ins draw from. Nil fields
// fall back to synthetic demo sources so a bare binary still renders.
type Sources struct {
	CPU       metrics.Sampler
	Memory    metrics.Sampler
	Processes metrics.ProcessLister
	Net       metrics.NetSampler
	Disks     metrics.DiskLister
	Repo      metrics.RepoInspector
	Clock     metrics.Clock
	Ring      *logging.Ring
}

func (s Sources) withDefaults() Sources {
	if s.CPU == nil {
		s.CPU = metrics.NewWaveform(1, 100)
	}
	if s.Memory == nil {
		s.Memory = metrics.NewWaveform(2, 16<<30)
	}
	if s.Processes == nil {
		s.Processes = metrics.DemoProcesses()
	}
	if s.Net == nil {
		s.Net = &metrics.CounterNet{}
	}
	if s.Disks == nil {
		s.Disks = metrics.DemoDisks()
	}
	if s.Repo == nil {
		s.Repo = metrics.DemoRepo()
	}
	if s.Clock == nil {
		s.Clock = metrics.SystemClock{}
	}
	if s.Ring == nil {
		s.Ring = logging.NewRing(0)
	}
	return s
}

// RegisterAll adds every built-in widget type to the registry.
func RegisterAll(reg *widget.Registry, src Sources) error {
	src = src.withDefaults()

	factories := []struct {
		name    string
		factory widget.Factory
	}{
		{"clock", func() widget.Widget { return NewClock(src.Clock) }},
		{"text", func() widget.Widget { return NewText("statboard", "q quit · tab focus · ctrl-r reload") }},
		{"log", func() widget.Widget { return NewLogView(src.Ring) }},
		{"cpu", func() widget.Widget { return NewCPU(src.CPU) }},
		{"memory", func() widget.Widget { return NewGauge("memory", src.Memory) }},
		{"disk", func() widget.Widget { return NewDisk(src.Disks) }},
		{"network", func() widget.Widget { return NewNetwork(src.Net) }},
		{"process", func() widget.Widget { return NewProcessTable(src.Processes) }},
		{"git", func() widget.Widget { return NewGit(src.Repo) }},
	}
	for _, f := range factories {
		if err := reg.RegisterBuiltin(f.name, f.factory); err != nil {
			return fmt.Errorf("register builtin %q: %w", f.name, err)
		}
	}
	return nil
}

var (
	focusedBorder   = backend.DefaultStyle().Foreground(backend.ColorCyan).Bold(true)
	unfocusedBorder = backend.DefaultStyle().Foreground(backend.ColorBrightBlack)
	titleStyle      = backend.DefaultStyle().Bold(true)
	textStyle       = backend.DefaultStyle()
	dimStyle        = backend.DefaultStyle().Dim(true)
	alertStyle      = backend.DefaultStyle().Foreground(backend.ColorRed)
)

// frame draws the widget border plus title and returns the interior rect.
func frame(buf *buffer.Buffer, area layout.Rect, title string, focused bool) layout.Rect {
	border := unfocusedBorder
	if focused {
		border = focusedBorder
	}
	buf.DrawTitledBox(area, title, border, titleStyle)
	return area.Inset(1, 1, 1, 1)
}

// gaugeBar renders a horizontal ratio bar of the given width.
func gaugeBar(buf *buffer.Buffer, x, y, width int, ratio float64, s backend.Style) {
	if width <= 0 {
		return
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	for i := 0; i < width; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		buf.Set(x+i, y, ch, s)
	}
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}
