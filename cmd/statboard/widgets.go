package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statboard/statboard/pkg/config"
	"github.com/statboard/statboard/pkg/logging"
	"github.com/statboard/statboard/pkg/plugin"
	"github.com/statboard/statboard/pkg/widget"
	"github.com/statboard/statboard/pkg/widget/builtin"
)

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "List available widget types",
	Long: `List every widget type a dashboard can reference: the built-ins
plus whatever the plugin directory currently exports.`,
	Args: cobra.NoArgs,
	RunE: runWidgets,
}

func init() {
	widgetsCmd.Flags().StringVar(&pluginsFlag, "plugins", "", "widget plugin directory")
	rootCmd.AddCommand(widgetsCmd)
}

func runWidgets(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	reg := widget.NewRegistry()
	if err := builtin.RegisterAll(reg, builtin.Sources{}); err != nil {
		return err
	}

	log, _ := logging.Discard()
	loader := plugin.NewLoader(resolvePluginDir(cfg), reg, log)
	for _, res := range loader.Scan() {
		if res.Err != nil {
			fmt.Printf("  (skipped %s: %v)\n", res.Path, res.Err)
		}
	}
	defer loader.Close()

	for _, name := range reg.Names() {
		if owner := reg.OwnerOf(name); owner != nil {
			fmt.Printf("%-12s plugin %s\n", name, owner.Source())
		} else {
			fmt.Printf("%-12s builtin\n", name)
		}
	}
	return nil
}
