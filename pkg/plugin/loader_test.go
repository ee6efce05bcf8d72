package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/logging"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
	"github.com/statboard/statboard/pkg/widget"
)

type stubWidget struct{}

func (stubWidget) Render(*buffer.Buffer, layout.Rect, bool) {}
func (stubWidget) HandleInput(terminal.KeyEvent) bool { return false }
func (stubWidget) Tick(time.Duration) {}

// fakeOpener resolves module files from a canned table instead of the
// plugin runtime, keyed by base filename.
type fakeOpener struct {
	table map[string]*Symbols
	fail  map[string]error
}

func (f *fakeOpener) Open(path string) (*Symbols, error) {
	base := filepath.Base(path)
	if err, ok := f.fail[base]; ok {
		return nil, err
	}
	if syms, ok := f.table[base]; ok {
		return syms, nil
	}
	return nil, errors.New("no such module")
}

func exported(name string) *Symbols {
	return &Symbols{
		ABIVersion: ABIVersion,
		WidgetName: name,
		New:        func() widget.Widget { return stubWidget{} },
	}
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	return path
}

func newTestLoader(t *testing.T, dir string, opener Opener) (*Loader, *widget.Registry) {
	t.Helper()
	log, _ := logging.Discard()
	reg := widget.NewRegistry()
	return NewLoader(dir, reg, log, WithOpener(opener)), reg
}

func TestScanLoadsAndRegisters(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "uptime.so")
	touch(t, dir, "notes.txt") // ignored: not a module

	opener := &fakeOpener{table: map[string]*Symbols{"uptime.so": exported("uptime")}}
	loader, reg := newTestLoader(t, dir, opener)

	results := loader.Scan()
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)

	require.NoError(t, reg.Resolve("uptime"))
	inst, err := reg.Instantiate("uptime")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.Handles()[0].Liveness())
	inst.Close()
}

func TestScanMissingDirIsEmpty(t *testing.T) {
	loader, _ := newTestLoader(t, filepath.Join(t.TempDir(), "absent"), &fakeOpener{})
	assert.Empty(t, loader.Scan())
	assert.Empty(t, loader.Handles())
}

func TestScanRejectsABIMismatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "old.so")

	opener := &fakeOpener{table: map[string]*Symbols{
		"old.so": {ABIVersion: 99, WidgetName: "old", New: func() widget.Widget { return stubWidget{} }},
	}}
	loader, reg := newTestLoader(t, dir, opener)

	results := loader.Scan()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrABIVersion)
	assert.ErrorIs(t, reg.Resolve("old"), widget.ErrUnknownWidget)
	assert.Empty(t, loader.Handles())
}

func TestScanSkipsBrokenModuleAndContinues(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bad.so")
	touch(t, dir, "good.so")

	opener := &fakeOpener{
		table: map[string]*Symbols{"good.so": exported("good")},
		fail:  map[string]error{"bad.so": ErrMissingSymbol},
	}
	loader, reg := newTestLoader(t, dir, opener)

	results := loader.Scan()
	require.Len(t, results, 2)
	assert.NoError(t, reg.Resolve("good"))
	require.Len(t, loader.Handles(), 1)
}

func TestScanCollisionKeepsFirstRegistration(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "clash.so")

	opener := &fakeOpener{table: map[string]*Symbols{"clash.so": exported("cpu")}}
	loader, reg := newTestLoader(t, dir, opener)
	require.NoError(t, reg.RegisterBuiltin("cpu", func() widget.Widget { return stubWidget{} }))

	results := loader.Scan()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, widget.ErrNameCollision)

	// Builtin untouched, module holds no registration.
	assert.Nil(t, reg.OwnerOf("cpu"))
	assert.Empty(t, loader.Handles())
}

func TestRemovedModuleGoesStale(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "uptime.so")

	opener := &fakeOpener{table: map[string]*Symbols{"uptime.so": exported("uptime")}}
	loader, reg := newTestLoader(t, dir, opener)
	loader.Scan()

	inst, err := reg.Instantiate("uptime")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	loader.Scan()

	// Name withdrawn: referencing it now is an unknown-widget failure.
	assert.ErrorIs(t, reg.Resolve("uptime"), widget.ErrUnknownWidget)
	assert.Empty(t, loader.Handles())

	// The existing instance still holds the module alive.
	assert.Equal(t, 0, loader.SweepRetired())
	inst.Close()
	assert.Equal(t, 1, loader.SweepRetired())
}

func TestReplacedModuleRetiresOldHandle(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "uptime.so")

	opener := &fakeOpener{table: map[string]*Symbols{"uptime.so": exported("uptime")}}
	loader, reg := newTestLoader(t, dir, opener)
	loader.Scan()

	oldInst, err := reg.Instantiate("uptime")
	require.NoError(t, err)
	oldHandle := loader.Handles()[0]

	// Rewrite the file with a new mtime, as a rebuild would.
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	loader.Scan()

	assert.True(t, oldHandle.Stale())
	require.Len(t, loader.Handles(), 1)
	newHandle := loader.Handles()[0]
	assert.NotSame(t, oldHandle, newHandle)

	// New instantiations bind to the new handle; the old instance keeps
	// the retired module alive until closed.
	newInst, err := reg.Instantiate("uptime")
	require.NoError(t, err)
	assert.Equal(t, 1, newHandle.Liveness())

	assert.Equal(t, 0, loader.SweepRetired())
	oldInst.Close()
	assert.Equal(t, 1, loader.SweepRetired())
	newInst.Close()
}

func TestStaleHandleRejectsAcquire(t *testing.T) {
	h := &Handle{path: "x.so"}
	require.NoError(t, h.Acquire())
	h.MarkStale()
	assert.ErrorIs(t, h.Acquire(), ErrHandleStale)
	assert.Equal(t, 1, h.Liveness())
	h.Release()
	assert.Equal(t, 0, h.Liveness())
}

func TestCloseRetiresEverything(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.so")
	touch(t, dir, "b.so")

	opener := &fakeOpener{table: map[string]*Symbols{
		"a.so": exported("alpha"),
		"b.so": exported("beta"),
	}}
	loader, reg := newTestLoader(t, dir, opener)
	loader.Scan()
	require.Len(t, loader.Handles(), 2)

	loader.Close()
	assert.Empty(t, loader.Handles())
	assert.ErrorIs(t, reg.Resolve("alpha"), widget.ErrUnknownWidget)
	assert.ErrorIs(t, reg.Resolve("beta"), widget.ErrUnknownWidget)
}
