// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/keylens/keylens/internal/config"
	"github.com/keylens/keylens/internal/render"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage keylens configuration",
		Long: `Manage keylens configuration.

Configuration is read from the first of:
  - the file named by --config
  - Linux: ~/.config/keylens/config.cue
    macOS: ~/Library/Application Support/keylens/config.cue
    Windows: %APPDATA%\keylens\config.cue
  - keylens.cue in the project root

KEYLENS_* environment variables override file values, for example
KEYLENS_LIVE_UPDATES_DEBOUNCE_MS=150.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			source := ws.cfg.Source
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintf(app.stdout, "%s %s\n\n", render.MutedStyle.Render("// source:"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(ws.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}
