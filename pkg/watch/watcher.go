package watch

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies a reload event by the resource that changed.
type Kind int

const (
	ConfigChanged Kind = iota
	PluginChanged
	ManualReload
)

// String returns a short name for logs.
func (k Kind) String() string {
	switch k {
	case ConfigChanged:
		return "config"
	case PluginChanged:
		return "plugin"
	case ManualReload:
		return "manual"
	default:
		return "unknown"
	}
}

// ReloadEvent asks the engine to run the reload pipeline.
type ReloadEvent struct {
	Kind Kind
	Path string
}

// queueSize bounds the reload queue. Only the latest change per resource
// matters, so a full queue already holds an event of every interesting
// kind and new ones can be dropped.
const queueSize = 8

// Watcher observes the config file and plugin directory and posts
// debounced ReloadEvents. It never touches engine state directly.
type Watcher struct {
	events chan ReloadEvent
	log    *slog.Logger

	configPath string
	pluginDir  string

	fs             *fsnotify.Watcher
	configDebounce *Debouncer
	pluginDebounce *Debouncer

	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window for both resources.
func WithDebounce(window time.Duration) Option {
	return func(w *Watcher) {
		w.configDebounce = NewDebouncer(window)
		w.pluginDebounce = NewDebouncer(window)
	}
}

// New starts watching configPath and pluginDir. A path that cannot be
// watched disables hot reload for that resource only: the failure is
// logged and manual reload keeps working. Either path may be empty to
// skip it.
func New(configPath, pluginDir string, log *slog.Logger, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		events:         make(chan ReloadEvent, queueSize),
		log:            log,
		configDebounce: NewDebouncer(DefaultDebounce),
		pluginDebounce: NewDebouncer(DefaultDebounce),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			w.configPath = abs
		} else {
			w.configPath = filepath.Clean(configPath)
		}
	}
	if pluginDir != "" {
		if abs, err := filepath.Abs(pluginDir); err == nil {
			w.pluginDir = abs
		} else {
			w.pluginDir = filepath.Clean(pluginDir)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		// No notification backend at all: manual reload only.
		log.Warn("filesystem notifications unavailable, hot reload disabled", "error", err)
		return w, nil
	}
	w.fs = fs

	if w.configPath != "" {
		// Watch the parent directory: editors rename-replace files, which
		// drops a watch placed on the file itself.
		if err := fs.Add(filepath.Dir(w.configPath)); err != nil {
			log.Warn("cannot watch config file, hot reload disabled for it",
				"path", w.configPath, "error", err)
		}
	}
	if w.pluginDir != "" {
		if err := fs.Add(w.pluginDir); err != nil {
			log.Warn("cannot watch plugin directory, hot reload disabled for it",
				"dir", w.pluginDir, "error", err)
		}
	}

	go w.run()
	return w, nil
}

// Events returns the reload queue consumed by the event loop.
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

// ManualReload injects a reload event immediately, bypassing the debounce.
func (w *Watcher) ManualReload() {
	w.post(ReloadEvent{Kind: ManualReload})
}

// Close stops the watcher. The events channel stays open (the engine may
// still be draining it) but nothing further is posted.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.configDebounce.Cancel()
		w.pluginDebounce.Cancel()
		if w.fs != nil {
			w.fs.Close()
		}
	})
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	const interesting = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	if ev.Op&interesting == 0 {
		return
	}

	name := filepath.Clean(ev.Name)
	switch {
	case w.configPath != "" && name == w.configPath:
		w.configDebounce.Trigger(func() {
			w.post(ReloadEvent{Kind: ConfigChanged, Path: w.configPath})
		})
	case w.pluginDir != "" && filepath.Dir(name) == w.pluginDir && strings.HasSuffix(name, ".so"):
		w.pluginDebounce.Trigger(func() {
			w.post(ReloadEvent{Kind: PluginChanged, Path: w.pluginDir})
		})
	}
}

// post enqueues without ever blocking the watcher. A full queue already
// carries an event of the same kind, so the new one is coalesced away.
func (w *Watcher) post(ev ReloadEvent) {
	select {
	case w.events <- ev:
	default:
		w.log.Debug("reload queue full, coalescing", "kind", ev.Kind)
	}
}
