package builtin

import (
	"fmt"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Disk lists mounted filesystems with a usage bar per mount.
type Disk struct {
	source metrics.DiskLister
	disks  []metrics.DiskUsage
}

// NewDisk creates a disk widget over the given lister.
func NewDisk(s metrics.DiskLister) *Disk {
	return &Disk{source: s}
}

func (w *Disk) Tick(time.Duration) {
	w.disks = w.source.Disks()
}

func (w *Disk) HandleInput(terminal.KeyEvent) bool { return false }

func (w *Disk) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, "disk", focused)
	if inner.Empty() {
		return
	}
	for i, d := range w.disks {
		y := inner.Y + i
		if y >= inner.Y+inner.Height {
			break
		}
		ratio := 0.0
		if d.TotalBytes > 0 {
			ratio = float64(d.UsedBytes) / float64(d.TotalBytes)
		}
		style := textStyle
		if ratio > 0.9 {
			style = alertStyle
		}
		label := fmt.Sprintf("%-10s %s/%s", d.Mount, humanBytes(d.UsedBytes), humanBytes(d.TotalBytes))
		buf.SetString(inner.X+1, y, label, style)
		barX := inner.X + 1 + len(label) + 1
		gaugeBar(buf, barX, y, inner.X+inner.Width-1-barX, ratio, style)
	}
}
