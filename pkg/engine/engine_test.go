package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statboard/statboard/pkg/config"
	"github.com/statboard/statboard/pkg/dashboard"
	"github.com/statboard/statboard/pkg/logging"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/plugin"
	"github.com/statboard/statboard/pkg/ui/backend/sim"
	"github.com/statboard/statboard/pkg/ui/terminal"
	"github.com/statboard/statboard/pkg/watch"
	"github.com/statboard/statboard/pkg/widget"
	"github.com/statboard/statboard/pkg/widget/builtin"
)

// harness wires a full engine over the simulation backend.
type harness struct {
	backend *sim.Backend
	engine  *Engine
	done    chan error
}

func newHarness(t *testing.T, yaml, configPath string) *harness {
	t.Helper()

	log, ring := logging.Discard()

	cfg, err := config.Parse([]byte(yaml), configPath)
	require.NoError(t, err)

	reg := widget.NewRegistry()
	require.NoError(t, builtin.RegisterAll(reg, builtin.Sources{
		Clock: metrics.FixedClock{T: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)},
		Ring:  ring,
	}))

	loader := plugin.NewLoader(filepath.Join(t.TempDir(), "plugins"), reg, log)
	mgr := dashboard.NewManager(cfg, reg, log)
	require.NoError(t, mgr.Activate(cfg.Dashboards[0].Name))

	watcher, err := watch.New(configPath, "", log, watch.WithDebounce(30*time.Millisecond))
	require.NoError(t, err)

	be := sim.New(80, 24)
	h := &harness{
		backend: be,
		engine: New(Params{
			Backend:    be,
			Manager:    mgr,
			Loader:     loader,
			Watcher:    watcher,
			Log:        log,
			ConfigPath: configPath,
			Tick:       time.Hour, // ticks driven by events in tests
		}),
		done: make(chan error, 1),
	}
	go func() { h.done <- h.engine.Run() }()
	return h
}

func (h *harness) waitText(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, y := h.backend.FindText(text)
		return y >= 0
	}, 3*time.Second, 10*time.Millisecond, "text %q never appeared", text)
}

func (h *harness) quit(t *testing.T) {
	t.Helper()
	h.backend.InjectKeyRune('q')
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not quit")
	}
}

const clockOnly = `
dashboards:
  - name: main
    layout: {type: widget, name: clock}
`

const cpuAndText = `
dashboards:
  - name: main
    layout:
      type: layout
      direction: vertical
      items:
        - {type: widget, name: cpu, flex: 1}
        - {type: widget, name: text, fixed: 3}
`

func TestEngineRendersFirstFrame(t *testing.T) {
	h := newHarness(t, clockOnly, "")
	h.waitText(t, "clock")
	h.waitText(t, "09:26:53")
	h.quit(t)
}

func TestEngineQuitKey(t *testing.T) {
	h := newHarness(t, clockOnly, "")
	h.waitText(t, "clock")
	h.quit(t)
}

func TestEngineCtrlCQuits(t *testing.T) {
	h := newHarness(t, clockOnly, "")
	h.waitText(t, "clock")
	h.backend.InjectKey(terminal.KeyCtrlC, 0)
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not quit on ctrl-c")
	}
}

func TestEngineRoutesKeysToFocusedWidget(t *testing.T) {
	h := newHarness(t, cpuAndText, "")
	h.waitText(t, "cpu [30s]")

	// The cpu widget is first in traversal order, so it holds focus and
	// 'h' cycles its history window.
	h.backend.InjectKeyRune('h')
	h.waitText(t, "cpu [60s]")
	h.backend.InjectKeyRune('h')
	h.waitText(t, "cpu [120s]")

	h.quit(t)
}

func TestEngineFocusCycleStopsRouting(t *testing.T) {
	h := newHarness(t, cpuAndText, "")
	h.waitText(t, "cpu [30s]")

	// Tab moves focus to the text widget; 'h' no longer reaches the cpu
	// widget. Tab again wraps back and 'h' works once more.
	h.backend.InjectKey(terminal.KeyTab, 0)
	h.backend.InjectKeyRune('h')
	time.Sleep(100 * time.Millisecond)
	_, y := h.backend.FindText("cpu [60s]")
	assert.Less(t, y, 0, "unfocused widget received input")

	h.backend.InjectKey(terminal.KeyTab, 0)
	h.backend.InjectKeyRune('h')
	h.waitText(t, "cpu [60s]")

	h.quit(t)
}

func TestEngineResize(t *testing.T) {
	h := newHarness(t, clockOnly, "")
	h.waitText(t, "clock")

	h.backend.InjectResize(40, 12)
	h.waitText(t, "clock")

	h.quit(t)
}

func TestEngineHotReloadSwapsDashboard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(clockOnly), 0o644))

	h := newHarness(t, clockOnly, path)
	h.waitText(t, "clock")

	require.NoError(t, os.WriteFile(path, []byte(cpuAndText), 0o644))
	h.waitText(t, "cpu [30s]")

	h.quit(t)
}

func TestEngineRejectedReloadKeepsFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(clockOnly), 0o644))

	h := newHarness(t, clockOnly, path)
	h.waitText(t, "clock")

	// Garbage config: the reload is rejected and the old dashboard keeps
	// rendering, frame for frame.
	require.NoError(t, os.WriteFile(path, []byte("dashboards: ["), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.True(t, strings.Contains(h.backend.Capture(), "clock"))

	// A dashboard referencing an unknown widget is rejected the same way.
	require.NoError(t, os.WriteFile(path, []byte(`
dashboards:
  - name: main
    layout: {type: widget, name: mystery}
`), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.True(t, strings.Contains(h.backend.Capture(), "clock"))

	// A good config afterwards still goes through.
	require.NoError(t, os.WriteFile(path, []byte(cpuAndText), 0o644))
	h.waitText(t, "cpu [30s]")

	h.quit(t)
}

func TestEngineManualReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(clockOnly), 0o644))

	h := newHarness(t, clockOnly, path)
	h.waitText(t, "clock")

	// Change the file, then force the reload with ctrl-r rather than
	// waiting on the watcher.
	require.NoError(t, os.WriteFile(path, []byte(cpuAndText), 0o644))
	h.backend.InjectKey(terminal.KeyCtrlR, 0)
	h.waitText(t, "cpu [30s]")

	h.quit(t)
}
