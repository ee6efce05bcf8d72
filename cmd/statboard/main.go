package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "statboard",
	Short: "Live terminal dashboards for development machines",
	Long: `Statboard renders configurable dashboards in the terminal: cpu,
memory, disk, network, process and git panels arranged by a declarative
layout, updating live.

Dashboards are defined in statboard.yaml. Editing the file while the
program runs hot-reloads the screen; dropping compiled widget modules
into the plugin directory adds panels without a restart.

Keys: q quit · tab/shift-tab cycle focus · ctrl-r reload`,
	SilenceUsage: true,
	RunE:         runDashboard,
}

var (
	configFlag    string
	dashboardFlag string
	pluginsFlag   string
	debounceFlag  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "config file (default ./statboard.yaml, then the user config dir)")
	rootCmd.Flags().StringVarP(&dashboardFlag, "dashboard", "d", "", "dashboard to show (default: first in config)")
	rootCmd.Flags().StringVar(&pluginsFlag, "plugins", "", "widget plugin directory")
	rootCmd.Flags().StringVar(&debounceFlag, "debounce", "", "reload coalescing window, e.g. 200ms")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
