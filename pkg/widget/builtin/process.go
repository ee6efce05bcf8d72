package builtin

import (
	"fmt"
	"sort"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

type sortKey int

const (
	sortByCPU sortKey = iota
	sortByMemory
	sortByPID
)

func (k sortKey) String() string {
	switch k {
	case sortByCPU:
		return "cpu"
	case sortByMemory:
		return "mem"
	default:
		return "pid"
	}
}

// ProcessTable lists processes sorted by a selectable column.
//
// Keys (when focused):
//
//	c  sort by cpu percent
//	m  sort by memory
//	p  sort by pid
type ProcessTable struct {
	source metrics.ProcessLister
	rows   []metrics.Process
	key    sortKey
}

// NewProcessTable creates a process widget over the given lister.
func NewProcessTable(s metrics.ProcessLister) *ProcessTable {
	return &ProcessTable{source: s, key: sortByCPU}
}

func (w *ProcessTable) Tick(time.Duration) {
	w.rows = append(w.rows[:0], w.source.Processes()...)
	w.sortRows()
}

func (w *ProcessTable) sortRows() {
	switch w.key {
	case sortByCPU:
		sort.SliceStable(w.rows, func(i, j int) bool {
			return w.rows[i].CPUPercent > w.rows[j].CPUPercent
		})
	case sortByMemory:
		sort.SliceStable(w.rows, func(i, j int) bool {
			return w.rows[i].MemoryBytes > w.rows[j].MemoryBytes
		})
	case sortByPID:
		sort.SliceStable(w.rows, func(i, j int) bool {
			return w.rows[i].PID < w.rows[j].PID
		})
	}
}

func (w *ProcessTable) HandleInput(ev terminal.KeyEvent) bool {
	if ev.Key != terminal.KeyRune {
		return false
	}
	switch ev.Rune {
	case 'c':
		w.key = sortByCPU
	case 'm':
		w.key = sortByMemory
	case 'p':
		w.key = sortByPID
	default:
		return false
	}
	w.sortRows()
	return true
}

func (w *ProcessTable) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, fmt.Sprintf("process [%s]", w.key), focused)
	if inner.Empty() {
		return
	}
	buf.SetString(inner.X+1, inner.Y, fmt.Sprintf("%7s %-20s %6s %8s", "PID", "NAME", "CPU%", "MEM"), titleStyle)
	for i, p := range w.rows {
		y := inner.Y + 1 + i
		if y >= inner.Y+inner.Height {
			break
		}
		line := fmt.Sprintf("%7d %-20s %6.1f %8s", p.PID, p.Name, p.CPUPercent, humanBytes(p.MemoryBytes))
		buf.SetString(inner.X+1, y, line, textStyle)
	}
}
