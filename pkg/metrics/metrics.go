// Package metrics defines the boundary between dashboard widgets and
// whatever actually gathers host or repository data. The engine never
// touches the operating system for metrics; widgets consume these
// interfaces and the process wires in concrete sources.
package metrics

import "time"

// Point is a single scalar sample with its scale ceiling.
type Point struct {
	Value float64
	Max   float64
}

// Sampler produces scalar samples (CPU percent, memory used, swap, load).
type Sampler interface {
	Sample() Point
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func() Point

// Sample calls f.
func (f SamplerFunc) Sample() Point { return f() }

// Process is one row of a process table.
type Process struct {
	PID         int
	Name        string
	CPUPercent  float64
	MemoryBytes uint64
}

// ProcessLister produces a point-in-time process table.
type ProcessLister interface {
	Processes() []Process
}

// RepoStatus summarizes a version-control working tree.
type RepoStatus struct {
	Branch        string
	Ahead, Behind int
	DirtyFiles    int
	RecentCommits []string
}

// RepoInspector produces repository status snapshots.
type RepoInspector interface {
	Status() RepoStatus
}

// NetSample is a cumulative byte counter pair for one interface.
type NetSample struct {
	Interface string
	RxBytes   uint64
	TxBytes   uint64
}

// NetSampler produces network counter samples.
type NetSampler interface {
	Sample() []NetSample
}

// DiskUsage describes one mounted filesystem.
type DiskUsage struct {
	Mount      string
	UsedBytes  uint64
	TotalBytes uint64
}

// DiskLister produces filesystem usage snapshots.
type DiskLister interface {
	Disks() []DiskUsage
}

// Clock abstracts time for widgets that display it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
