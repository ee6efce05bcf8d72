package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/statboard/statboard/pkg/widget"
)

// LoadResult records the outcome of one module file during a scan.
type LoadResult struct {
	Path string
	Err  error // nil on success
}

// Loader scans a directory for widget modules and keeps their handles.
// All methods run on the event-loop goroutine; the loader shares no state
// with the watcher.
type Loader struct {
	dir      string
	opener   Opener
	registry *widget.Registry
	log      *slog.Logger

	handles map[string]*Handle // path -> live handle
	retired []*Handle          // graveyard: retired handles, oldest first
}

// Option configures a Loader.
type Option func(*Loader)

// WithOpener overrides the module opener (tests use fakes).
func WithOpener(o Opener) Option {
	return func(l *Loader) { l.opener = o }
}

// NewLoader creates a loader over dir, registering exports into registry.
func NewLoader(dir string, registry *widget.Registry, log *slog.Logger, opts ...Option) *Loader {
	l := &Loader{
		dir:      dir,
		opener:   SharedObjectOpener{},
		registry: registry,
		log:      log,
		handles:  make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the scanned directory.
func (l *Loader) Dir() string { return l.dir }

// Handles returns the live handles, sorted by path.
func (l *Loader) Handles() []*Handle {
	out := make([]*Handle, 0, len(l.handles))
	for _, h := range l.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// Scan walks the plugin directory, loading new modules, marking removed or
// replaced ones stale, and registering exports. Every per-module failure is
// recoverable: it is logged, recorded in the results, and the scan
// continues. A missing directory is not an error — there are simply no
// plugins.
func (l *Loader) Scan() []LoadResult {
	var results []LoadResult

	seen := make(map[string]bool, len(l.handles))
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn("plugin directory unreadable", "dir", l.dir, "error", err)
		}
	} else {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".so") {
				continue
			}
			path := filepath.Join(l.dir, entry.Name())
			seen[path] = true

			info, err := entry.Info()
			if err != nil {
				results = append(results, LoadResult{Path: path, Err: err})
				continue
			}

			if h, ok := l.handles[path]; ok {
				if h.stale {
					continue
				}
				if !info.ModTime().Equal(h.modTime) {
					// Replaced on disk. The old code keeps serving existing
					// instances; new instantiations must not bind to it.
					l.log.Info("plugin replaced on disk, retiring old module", "path", path)
					l.markStale(h)
					if res := l.load(path, info.ModTime()); res != nil {
						results = append(results, *res)
					}
				}
				continue
			}

			if res := l.load(path, info.ModTime()); res != nil {
				results = append(results, *res)
			}
		}
	}

	// Files that disappeared mark their handles stale.
	for path, h := range l.handles {
		if !seen[path] && !h.stale {
			l.log.Info("plugin file removed, marking stale", "path", path)
			l.markStale(h)
		}
	}

	return results
}

// load opens one module file and offers its export to the registry.
func (l *Loader) load(path string, modTime time.Time) *LoadResult {
	syms, err := l.opener.Open(path)
	if err != nil {
		l.log.Warn("plugin load failed", "path", path, "error", err)
		return &LoadResult{Path: path, Err: err}
	}
	if syms.ABIVersion != ABIVersion {
		err := fmt.Errorf("%w: %s exports version %d, engine speaks %d",
			ErrABIVersion, path, syms.ABIVersion, ABIVersion)
		l.log.Warn("plugin rejected", "path", path, "error", err)
		return &LoadResult{Path: path, Err: err}
	}

	h := &Handle{path: path, abiVersion: syms.ABIVersion, modTime: modTime}
	if err := l.registry.RegisterPlugin(syms.WidgetName, syms.New, h); err != nil {
		if errors.Is(err, widget.ErrNameCollision) {
			l.log.Warn("plugin widget name collides with existing registration",
				"path", path, "name", syms.WidgetName)
			return &LoadResult{Path: path, Err: err}
		}
		l.log.Warn("plugin registration failed", "path", path, "error", err)
		return &LoadResult{Path: path, Err: err}
	}
	h.names = append(h.names, syms.WidgetName)

	l.handles[path] = h
	l.log.Info("plugin loaded", "path", path, "widget", syms.WidgetName)
	return &LoadResult{Path: path}
}

// markStale flags a handle and withdraws its registrations so new
// instantiations resolve elsewhere (or fail with UnknownWidget).
func (l *Loader) markStale(h *Handle) {
	h.MarkStale()
	for _, name := range h.names {
		l.registry.Unregister(name, h)
	}
	delete(l.handles, h.path)
	l.retired = append(l.retired, h)
}

// SweepRetired drops retired handles whose liveness reached zero. Called
// after a reload swap has closed the old tree's instances. The Go runtime
// cannot unmap plugin code, so "unloading" here means the engine holds no
// reference whatsoever into the module: no registry entry, no instance, no
// handle.
func (l *Loader) SweepRetired() int {
	kept := l.retired[:0]
	dropped := 0
	for _, h := range l.retired {
		if h.Liveness() == 0 {
			l.log.Info("plugin unloaded", "path", h.path)
			dropped++
			continue
		}
		kept = append(kept, h)
	}
	l.retired = kept
	return dropped
}

// Close marks every handle stale and sweeps, in reverse-acquisition order.
func (l *Loader) Close() {
	handles := l.Handles()
	for i := len(handles) - 1; i >= 0; i-- {
		l.markStale(handles[i])
	}
	l.SweepRetired()
}
