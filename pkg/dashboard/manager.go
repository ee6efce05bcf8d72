package dashboard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/statboard/statboard/pkg/config"
	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/widget"
)

// ErrUnknownDashboard is returned when a requested dashboard name does not
// exist in the configuration.
var ErrUnknownDashboard = errors.New("unknown dashboard")

// Manager tracks the configuration's dashboards and the one currently on
// screen. Swaps are wholesale: the new tree is built completely beside the
// old one, then pointers exchange and the old tree is released. There is
// never a frame mixing widgets from two generations.
type Manager struct {
	cfg    *config.Config
	reg    *widget.Registry
	log    *slog.Logger
	active *Tree
}

// NewManager creates a manager over the given configuration and registry.
func NewManager(cfg *config.Config, reg *widget.Registry, log *slog.Logger) *Manager {
	return &Manager{cfg: cfg, reg: reg, log: log}
}

// Names returns the configured dashboard names in declaration order.
func (m *Manager) Names() []string { return m.cfg.Names() }

// Config returns the configuration currently in force.
func (m *Manager) Config() *config.Config { return m.cfg }

// Current returns the active tree, or nil before the first Activate.
func (m *Manager) Current() *Tree { return m.active }

// Activate builds the named dashboard and swaps it in. On any failure the
// previously active tree stays on screen untouched.
func (m *Manager) Activate(name string) error {
	d, ok := m.cfg.Dashboard(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDashboard, name)
	}
	root, err := d.BuildLayout()
	if err != nil {
		return fmt.Errorf("dashboard %q: %w", name, err)
	}
	next, err := BuildTree(name, root, m.reg)
	if err != nil {
		return err
	}
	m.swap(next)
	return nil
}

// Reload adopts a new configuration and rebuilds the active dashboard from
// it. The new tree is built aside first; if the active dashboard is gone
// from the new config or fails to build, the old config and tree both stay.
func (m *Manager) Reload(cfg *config.Config) error {
	if m.active == nil {
		m.cfg = cfg
		return nil
	}
	name := m.active.Name()
	d, ok := cfg.Dashboard(name)
	if !ok {
		return fmt.Errorf("%w: %q no longer in config", ErrUnknownDashboard, name)
	}
	root, err := d.BuildLayout()
	if err != nil {
		return fmt.Errorf("dashboard %q: %w", name, err)
	}
	next, err := BuildTree(name, root, m.reg)
	if err != nil {
		return err
	}

	// Inactive dashboards with problems don't block the swap, but the
	// user should hear about them before switching to one.
	for i := range cfg.Dashboards {
		d := &cfg.Dashboards[i]
		if d.Name == name {
			continue
		}
		if err := m.resolveDashboard(d); err != nil {
			m.log.Warn("dashboard will not build until fixed", "name", d.Name, "error", err)
		}
	}

	m.cfg = cfg
	m.swap(next)
	m.log.Info("dashboard rebuilt", "name", name, "widgets", len(next.Instances()))
	return nil
}

// resolveDashboard checks a dashboard's layout and widget references
// without instantiating anything.
func (m *Manager) resolveDashboard(d *config.Dashboard) error {
	root, err := d.BuildLayout()
	if err != nil {
		return err
	}
	for _, ref := range layout.WidgetNames(root) {
		if err := m.reg.Resolve(ref); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) swap(next *Tree) {
	old := m.active
	m.active = next
	if old != nil {
		old.Close()
	}
}

// Close releases the active tree.
func (m *Manager) Close() {
	if m.active != nil {
		m.active.Close()
		m.active = nil
	}
}
