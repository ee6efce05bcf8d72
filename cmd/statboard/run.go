package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/statboard/statboard/pkg/config"
	"github.com/statboard/statboard/pkg/dashboard"
	"github.com/statboard/statboard/pkg/engine"
	"github.com/statboard/statboard/pkg/logging"
	"github.com/statboard/statboard/pkg/plugin"
	tcellbackend "github.com/statboard/statboard/pkg/ui/backend/tcell"
	"github.com/statboard/statboard/pkg/watch"
	"github.com/statboard/statboard/pkg/widget"
	"github.com/statboard/statboard/pkg/widget/builtin"
)

func runDashboard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; statboard needs an interactive session")
	}

	log, ring, closeLog, err := logging.Setup(logging.DefaultDir())
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	configPath := config.ResolvePath(configFlag)

	reg := widget.NewRegistry()
	if err := builtin.RegisterAll(reg, builtin.Sources{Ring: ring}); err != nil {
		return err
	}

	pluginDir := resolvePluginDir(cfg)
	loader := plugin.NewLoader(pluginDir, reg, log)
	for _, res := range loader.Scan() {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: plugin %s skipped: %v\n", res.Path, res.Err)
		}
	}

	name := dashboardFlag
	if name == "" {
		name = cfg.Dashboards[0].Name
	}
	mgr := dashboard.NewManager(cfg, reg, log)
	if err := mgr.Activate(name); err != nil {
		// Never bring up the screen for a dashboard that cannot exist.
		loader.Close()
		return err
	}

	debounce, err := resolveDebounce(cfg)
	if err != nil {
		return err
	}
	watcher, err := watch.New(configPath, pluginDir, log, watch.WithDebounce(debounce))
	if err != nil {
		return err
	}

	be, err := tcellbackend.New()
	if err != nil {
		return err
	}

	log.Info("starting", "dashboard", name, "config", configPath, "plugins", pluginDir)
	return engine.New(engine.Params{
		Backend:    be,
		Manager:    mgr,
		Loader:     loader,
		Watcher:    watcher,
		Log:        log,
		ConfigPath: configPath,
		Tick:       cfg.Tick(),
	}).Run()
}

// resolvePluginDir picks the plugin directory: flag, then config, then the
// per-user data directory.
func resolvePluginDir(cfg *config.Config) string {
	if pluginsFlag != "" {
		return pluginsFlag
	}
	if cfg.PluginDir != "" {
		return cfg.PluginDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "statboard", "plugins")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "statboard", "plugins")
	}
	return filepath.Join(home, ".local", "share", "statboard", "plugins")
}

func resolveDebounce(cfg *config.Config) (time.Duration, error) {
	if debounceFlag == "" {
		return cfg.Debounce(), nil
	}
	d, err := time.ParseDuration(debounceFlag)
	if err != nil {
		return 0, fmt.Errorf("invalid --debounce: %w", err)
	}
	return d, nil
}
