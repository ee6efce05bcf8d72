package builtin

import (
	"strings"
	"testing"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
	"github.com/statboard/statboard/pkg/widget"
)

func keyRune(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}
}

func renderToString(w widget.Widget, width, height int) string {
	buf := buffer.New(width, height)
	w.Render(buf, layout.Rect{Width: width, Height: height}, false)

	var sb strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := buf.Get(x, y).Rune
			if r == 0 {
				continue
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestRegisterAllNames(t *testing.T) {
	reg := widget.NewRegistry()
	if err := RegisterAll(reg, Sources{}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"clock", "text", "log", "cpu", "memory", "disk", "network", "process", "git"} {
		if err := reg.Resolve(name); err != nil {
			t.Fatalf("builtin %q missing: %v", name, err)
		}
		if owner := reg.OwnerOf(name); owner != nil {
			t.Fatalf("builtin %q has plugin owner %v", name, owner)
		}
	}
}

func TestRegisterAllTwiceCollides(t *testing.T) {
	reg := widget.NewRegistry()
	if err := RegisterAll(reg, Sources{}); err != nil {
		t.Fatal(err)
	}
	if err := RegisterAll(reg, Sources{}); err == nil {
		t.Fatal("second registration should collide")
	}
}

func TestClockRendersFixedTime(t *testing.T) {
	w := NewClock(metrics.FixedClock{T: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)})
	out := renderToString(w, 24, 4)

	if !strings.Contains(out, "09:26:53") {
		t.Fatalf("output missing time:\n%s", out)
	}
	if !strings.Contains(out, "2026-03-14") {
		t.Fatalf("output missing date:\n%s", out)
	}
}

func TestCPUHistoryWindowCycle(t *testing.T) {
	w := NewCPU(metrics.SamplerFunc(func() metrics.Point {
		return metrics.Point{Value: 42, Max: 100}
	}))

	for i, want := range []string{"cpu [60s]", "cpu [120s]", "cpu [300s]", "cpu [30s]"} {
		if !w.HandleInput(keyRune('h')) {
			t.Fatalf("press %d: 'h' not consumed", i)
		}
		out := renderToString(w, 30, 5)
		if !strings.Contains(out, want) {
			t.Fatalf("after %d presses, want title %q:\n%s", i+1, want, out)
		}
	}
}

func TestCPUWindowShrinkTrimsHistory(t *testing.T) {
	w := NewCPU(metrics.SamplerFunc(func() metrics.Point {
		return metrics.Point{Value: 10, Max: 100}
	}))
	// Grow past 30 samples on the largest window, then cycle back to 30.
	w.HandleInput(keyRune('h')) // 60
	w.HandleInput(keyRune('h')) // 120
	for i := 0; i < 100; i++ {
		w.Tick(time.Second)
	}
	w.HandleInput(keyRune('h')) // 300
	w.HandleInput(keyRune('h')) // 30

	if len(w.history) > 30 {
		t.Fatalf("history holds %d samples, want <= 30", len(w.history))
	}
}

func TestCPUResetAndPercentToggle(t *testing.T) {
	w := NewCPU(metrics.SamplerFunc(func() metrics.Point {
		return metrics.Point{Value: 37.5, Max: 100}
	}))
	w.Tick(time.Second)

	if out := renderToString(w, 30, 5); !strings.Contains(out, "37.5%") {
		t.Fatalf("percent label missing:\n%s", out)
	}

	if !w.HandleInput(keyRune('p')) {
		t.Fatal("'p' not consumed")
	}
	if out := renderToString(w, 30, 5); strings.Contains(out, "37.5%") {
		t.Fatalf("percent label still shown after toggle:\n%s", out)
	}

	if !w.HandleInput(keyRune('r')) {
		t.Fatal("'r' not consumed")
	}
	if len(w.history) != 0 {
		t.Fatalf("history not cleared: %d samples", len(w.history))
	}

	if w.HandleInput(keyRune('z')) {
		t.Fatal("'z' should not be consumed")
	}
}

func TestProcessSortKeys(t *testing.T) {
	w := NewProcessTable(metrics.StaticProcesses{Table: []metrics.Process{
		{PID: 30, Name: "low", CPUPercent: 1, MemoryBytes: 900 << 20},
		{PID: 10, Name: "hot", CPUPercent: 90, MemoryBytes: 10 << 20},
		{PID: 20, Name: "fat", CPUPercent: 5, MemoryBytes: 2 << 30},
	}})
	w.Tick(time.Second)

	first := func() string { return w.rows[0].Name }

	if first() != "hot" {
		t.Fatalf("default sort: first = %q, want hot", first())
	}
	w.HandleInput(keyRune('m'))
	if first() != "fat" {
		t.Fatalf("memory sort: first = %q, want fat", first())
	}
	w.HandleInput(keyRune('p'))
	if first() != "hot" {
		t.Fatalf("pid sort: first = %q, want hot (pid 10)", first())
	}
	w.HandleInput(keyRune('c'))
	if first() != "hot" {
		t.Fatalf("cpu sort: first = %q, want hot", first())
	}
}

func TestNetworkRatesFromDeltas(t *testing.T) {
	counter := &metrics.CounterNet{}
	w := NewNetwork(counter)

	w.Tick(time.Second) // baseline
	w.Tick(time.Second)

	out := renderToString(w, 40, 4)
	if !strings.Contains(out, "eth0") {
		t.Fatalf("interface missing:\n%s", out)
	}
	if !strings.Contains(out, "/s") {
		t.Fatalf("rate suffix missing after baseline tick:\n%s", out)
	}
}

func TestGaugeRendersUsage(t *testing.T) {
	w := NewGauge("memory", metrics.SamplerFunc(func() metrics.Point {
		return metrics.Point{Value: 8 << 30, Max: 16 << 30}
	}))
	w.Tick(time.Second)

	out := renderToString(w, 40, 4)
	if !strings.Contains(out, "memory") {
		t.Fatalf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "(50%)") {
		t.Fatalf("usage label missing:\n%s", out)
	}
}

func TestGitRendersStatus(t *testing.T) {
	w := NewGit(metrics.DemoRepo())
	w.Tick(time.Second)

	out := renderToString(w, 50, 8)
	for _, want := range []string{"main", "↑2", "↓0", "3 dirty files"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiskRendersMounts(t *testing.T) {
	w := NewDisk(metrics.DemoDisks())
	w.Tick(time.Second)

	out := renderToString(w, 50, 5)
	if !strings.Contains(out, "/home") {
		t.Fatalf("mount missing:\n%s", out)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := map[uint64]string{
		512:       "512B",
		2048:      "2.0K",
		3 << 20:   "3.0M",
		5 << 30:   "5.0G",
		1<<40 + 1: "1.0T",
	}
	for in, want := range cases {
		if got := humanBytes(in); got != want {
			t.Fatalf("humanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
