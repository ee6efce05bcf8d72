package builtin

import (
	"fmt"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Network shows per-interface receive/transmit rates derived from the
// deltas of cumulative byte counters between ticks.
type Network struct {
	source  metrics.NetSampler
	prev    map[string]metrics.NetSample
	rates   []netRate
	elapsed time.Duration
}

type netRate struct {
	iface        string
	rxPerSec     float64
	txPerSec     float64
	totalRx      uint64
	totalTx      uint64
	haveBaseline bool
}

// NewNetwork creates a network widget over the given sampler.
func NewNetwork(s metrics.NetSampler) *Network {
	return &Network{source: s, prev: make(map[string]metrics.NetSample)}
}

func (w *Network) Tick(elapsed time.Duration) {
	samples := w.source.Sample()
	secs := elapsed.Seconds()
	w.rates = w.rates[:0]
	for _, s := range samples {
		rate := netRate{iface: s.Interface, totalRx: s.RxBytes, totalTx: s.TxBytes}
		if prev, ok := w.prev[s.Interface]; ok && secs > 0 {
			// Counter wrap or interface reset shows as a zero rate.
			if s.RxBytes >= prev.RxBytes && s.TxBytes >= prev.TxBytes {
				rate.rxPerSec = float64(s.RxBytes-prev.RxBytes) / secs
				rate.txPerSec = float64(s.TxBytes-prev.TxBytes) / secs
			}
			rate.haveBaseline = true
		}
		w.rates = append(w.rates, rate)
		w.prev[s.Interface] = s
	}
}

func (w *Network) HandleInput(terminal.KeyEvent) bool { return false }

func (w *Network) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, "network", focused)
	if inner.Empty() {
		return
	}
	for i, r := range w.rates {
		y := inner.Y + i
		if y >= inner.Y+inner.Height {
			break
		}
		var line string
		if r.haveBaseline {
			line = fmt.Sprintf("%-8s ↓%s/s ↑%s/s", r.iface,
				humanBytes(uint64(r.rxPerSec)), humanBytes(uint64(r.txPerSec)))
		} else {
			line = fmt.Sprintf("%-8s ↓%s ↑%s", r.iface,
				humanBytes(r.totalRx), humanBytes(r.totalTx))
		}
		buf.SetString(inner.X+1, y, line, textStyle)
	}
}
