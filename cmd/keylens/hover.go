// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/keylens/keylens/internal/render"
	"github.com/keylens/keylens/internal/resolve"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newHoverCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "hover KEY",
		Short: "Show one key's value in every configured locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			key := args[0]
			values := resolve.AllLocales(cmd.Context(), ws.source(), key, ws.project.LocaleSet())
			md := render.HoverMarkdown(key, ws.active, values, ws.labels)
			if raw {
				fmt.Fprint(app.stdout, md)
				return nil
			}
			out, err := glamour.Render(md, ws.style)
			if err != nil {
				return fmt.Errorf("render hover: %w", err)
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	return cmd
}
