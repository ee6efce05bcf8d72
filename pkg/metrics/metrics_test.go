package metrics

import (
	"testing"
	"time"
)

func TestWaveformStaysInRange(t *testing.T) {
	w := NewWaveform(3, 100)
	for i := 0; i < 1000; i++ {
		p := w.Sample()
		if p.Value < 0 || p.Value > 100 {
			t.Fatalf("sample %d out of range: %v", i, p.Value)
		}
		if p.Max != 100 {
			t.Fatalf("max = %v, want 100", p.Max)
		}
	}
}

func TestWaveformSeedsDiffer(t *testing.T) {
	a := NewWaveform(1, 100).Sample()
	b := NewWaveform(2, 100).Sample()
	if a.Value == b.Value {
		t.Fatal("different seeds produced identical first samples")
	}
}

func TestCounterNetMonotonic(t *testing.T) {
	c := &CounterNet{}
	prev := c.Sample()[0]
	for i := 0; i < 10; i++ {
		cur := c.Sample()[0]
		if cur.RxBytes <= prev.RxBytes || cur.TxBytes <= prev.TxBytes {
			t.Fatalf("counters not monotonic: %+v -> %+v", prev, cur)
		}
		prev = cur
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := (FixedClock{T: at}).Now(); !got.Equal(at) {
		t.Fatalf("Now() = %v, want %v", got, at)
	}
}
