// Package engine runs the dashboard event loop. One goroutine owns all
// mutable state — registry, loader, manager, frame buffer — and processes
// input, ticks and reload requests strictly in sequence, so a frame is
// never rendered while state is mid-mutation.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/statboard/statboard/pkg/config"
	"github.com/statboard/statboard/pkg/dashboard"
	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/plugin"
	"github.com/statboard/statboard/pkg/ui/backend"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
	"github.com/statboard/statboard/pkg/watch"
)

// Engine wires the backend, dashboard manager, plugin loader and watcher
// into the single-threaded loop.
type Engine struct {
	backend backend.Backend
	buf     *buffer.Buffer
	manager *dashboard.Manager
	loader  *plugin.Loader
	watcher *watch.Watcher
	log     *slog.Logger

	configPath string
	tick       time.Duration
	lastTick   time.Time
	quit       bool
}

// Params collects the engine's collaborators, all constructed by the caller.
type Params struct {
	Backend backend.Backend
	Manager *dashboard.Manager
	Loader  *plugin.Loader
	Watcher *watch.Watcher
	Log     *slog.Logger

	// ConfigPath is re-read on reload. Empty means the built-in default
	// config is in force and reloads skip re-parsing.
	ConfigPath string
	// Tick is the widget update interval; zero means one second.
	Tick time.Duration
}

// New creates an engine. The manager must already have an active dashboard.
func New(p Params) *Engine {
	tick := p.Tick
	if tick <= 0 {
		tick = time.Second
	}
	return &Engine{
		backend:    p.Backend,
		buf:        buffer.New(0, 0),
		manager:    p.Manager,
		loader:     p.Loader,
		watcher:    p.Watcher,
		log:        p.Log,
		configPath: p.ConfigPath,
		tick:       tick,
	}
}

// Run initializes the backend and blocks in the event loop until the user
// quits. Teardown runs in reverse acquisition order: watcher, widget tree,
// plugin handles, terminal.
func (e *Engine) Run() error {
	if err := e.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer e.backend.Fini()
	defer e.loader.Close()
	defer e.manager.Close()
	defer e.watcher.Close()

	events := make(chan terminal.Event, 16)
	go e.pump(events)

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	e.lastTick = time.Now()

	w, h := e.backend.Size()
	e.buf.Resize(w, h)

	// Prime widgets so the first frame has data.
	e.manager.Current().Tick(0)
	e.render()

	for !e.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.handleEvent(ev)
		case now := <-ticker.C:
			elapsed := now.Sub(e.lastTick)
			e.lastTick = now
			e.manager.Current().Tick(elapsed)
			e.render()
		case rev := <-e.watcher.Events():
			e.reload(rev)
			e.render()
		}
	}
	return nil
}

// pump feeds backend events into the loop. It is the only other goroutine
// the engine starts, and it never touches engine state.
func (e *Engine) pump(events chan<- terminal.Event) {
	defer close(events)
	for {
		ev := e.backend.PollEvent()
		if ev == nil {
			return
		}
		events <- ev
	}
}

func (e *Engine) handleEvent(ev terminal.Event) {
	switch ev := ev.(type) {
	case terminal.ResizeEvent:
		e.buf.Resize(ev.Width, ev.Height)
		e.backend.Clear()
		e.render()
	case terminal.KeyEvent:
		e.handleKey(ev)
	}
}

// handleKey gives global bindings first claim; everything else goes to the
// focused widget.
func (e *Engine) handleKey(ev terminal.KeyEvent) {
	switch {
	case ev.Key == terminal.KeyCtrlC, ev.Key == terminal.KeyRune && ev.Rune == 'q':
		e.quit = true
		return
	case ev.Key == terminal.KeyTab:
		e.manager.Current().CycleFocus()
	case ev.Key == terminal.KeyBacktab:
		e.manager.Current().CycleFocusBack()
	case ev.Key == terminal.KeyCtrlR:
		e.watcher.ManualReload()
		return
	default:
		if f := e.manager.Current().Focused(); f != nil {
			if !f.HandleInput(ev) {
				return
			}
		}
	}
	e.render()
}

// render solves the active layout against the current frame size, lets
// every widget draw its region, and flushes once.
func (e *Engine) render() {
	w, h := e.buf.Size()
	tree := e.manager.Current()

	e.buf.Clear()
	placements := layout.SolveTree(tree.Root(), layout.Rect{Width: w, Height: h})
	instances := tree.Instances()
	for i, p := range placements {
		if i >= len(instances) {
			break
		}
		if p.Area.Empty() {
			continue
		}
		instances[i].Render(e.buf, p.Area)
	}
	e.buf.Flush(e.backend)
}

// reload runs the full pipeline regardless of what triggered it: re-parse
// the config, rescan plugins, rebuild the active tree aside, swap, then
// sweep retired modules. Any failure logs a warning and leaves the current
// dashboard rendering exactly as before.
func (e *Engine) reload(ev watch.ReloadEvent) {
	e.log.Info("reload", "trigger", ev.Kind.String(), "path", ev.Path)

	cfg := e.manager.Config()
	if e.configPath != "" {
		fresh, err := config.Load(e.configPath)
		if err != nil {
			e.log.Warn("reload rejected: config did not parse", "error", err)
			return
		}
		cfg = fresh
	}

	for _, res := range e.loader.Scan() {
		if res.Err != nil {
			e.log.Warn("plugin skipped during reload", "path", res.Path, "error", res.Err)
		}
	}

	if err := e.manager.Reload(cfg); err != nil {
		e.log.Warn("reload rejected: dashboard rebuild failed", "error", err)
		return
	}

	if dropped := e.loader.SweepRetired(); dropped > 0 {
		e.log.Info("retired plugin modules released", "count", dropped)
	}
}
