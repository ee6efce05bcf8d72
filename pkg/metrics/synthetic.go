package metrics

import (
	"math"
	"sync"
	"time"
)

// Waveform is a deterministic synthetic Sampler: a sine wave with a slow
// drift, seeded per widget so panels do not move in lockstep. It keeps the
// demo dashboards alive on machines where no real collector is wired in,
// and gives tests stable values via the Advance knob.
type Waveform struct {
	mu     sync.Mutex
	phase  float64
	step   float64
	max    float64
	offset float64
}

// NewWaveform creates a waveform sampler oscillating within (0, max).
func NewWaveform(seed int, max float64) *Waveform {
	return &Waveform{
		phase:  float64(seed%7) * 0.9,
		step:   0.35 + float64(seed%5)*0.07,
		max:    max,
		offset: max / 2,
	}
}

// Sample returns the next point along the wave.
func (w *Waveform) Sample() Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase += w.step
	v := w.offset + math.Sin(w.phase)*w.offset*0.85
	return Point{Value: v, Max: w.max}
}

// StaticProcesses is a canned process table.
type StaticProcesses struct {
	Table []Process
}

// Processes returns the canned table.
func (s StaticProcesses) Processes() []Process { return s.Table }

// DemoProcesses returns a plausible-looking process table for demos.
func DemoProcesses() StaticProcesses {
	return StaticProcesses{Table: []Process{
		{PID: 312, Name: "statboard", CPUPercent: 1.4, MemoryBytes: 28 << 20},
		{PID: 1044, Name: "compiler", CPUPercent: 73.2, MemoryBytes: 1200 << 20},
		{PID: 977, Name: "language-server", CPUPercent: 12.8, MemoryBytes: 640 << 20},
		{PID: 2203, Name: "browser", CPUPercent: 8.1, MemoryBytes: 2100 << 20},
		{PID: 41, Name: "sshd", CPUPercent: 0.0, MemoryBytes: 6 << 20},
		{PID: 1630, Name: "postgres", CPUPercent: 2.3, MemoryBytes: 310 << 20},
	}}
}

// StaticRepo is a canned repository status.
type StaticRepo struct {
	Snapshot RepoStatus
}

// Status returns the canned snapshot.
func (s StaticRepo) Status() RepoStatus { return s.Snapshot }

// DemoRepo returns a plausible repository snapshot for demos.
func DemoRepo() StaticRepo {
	return StaticRepo{Snapshot: RepoStatus{
		Branch:     "main",
		Ahead:      2,
		Behind:     0,
		DirtyFiles: 3,
		RecentCommits: []string{
			"a41f20c tighten reload swap ordering",
			"90be771 solver: clamp percentage overflow",
			"7cc8e02 plugin loader stale handles",
		},
	}}
}

// CounterNet is a synthetic NetSampler whose counters grow monotonically.
type CounterNet struct {
	mu sync.Mutex
	rx uint64
	tx uint64
}

// Sample advances and returns the counters.
func (c *CounterNet) Sample() []NetSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rx += 48 << 10
	c.tx += 9 << 10
	return []NetSample{{Interface: "eth0", RxBytes: c.rx, TxBytes: c.tx}}
}

// StaticDisks is a canned filesystem table.
type StaticDisks struct {
	Table []DiskUsage
}

// Disks returns the canned table.
func (s StaticDisks) Disks() []DiskUsage { return s.Table }

// DemoDisks returns plausible filesystem usage for demos.
func DemoDisks() StaticDisks {
	return StaticDisks{Table: []DiskUsage{
		{Mount: "/", UsedBytes: 182 << 30, TotalBytes: 460 << 30},
		{Mount: "/home", UsedBytes: 710 << 30, TotalBytes: 920 << 30},
	}}
}

// FixedClock always reports the same instant. Tests use it for stable frames.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (f FixedClock) Now() time.Time { return f.T }
