// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/render"

	"github.com/spf13/cobra"
)

func newLocaleCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "locale",
		Short: "Show the active locale and the configured locale files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, ws.labels.T(messages.LocaleChosenBy, map[string]any{
				"Locale": ws.active,
				"Tier":   ws.tier.String(),
			}))
			for _, locale := range ws.project.Locales() {
				path := ws.project.LocalePath(locale)
				marker := "○"
				if locale == ws.active {
					marker = "●"
				}
				status := path
				if !ws.repo.Exists(path) {
					status += " " + render.ErrorStyle.Render("(missing)")
				}
				fmt.Fprintf(app.stdout, "  %s %s  %s\n", marker, locale, render.MutedStyle.Render(status))
			}
			return nil
		},
	}
}
