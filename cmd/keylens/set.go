// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keylens/keylens/internal/issue"
	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/render"

	"github.com/spf13/cobra"
)

func newSetCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Write one entry into the active locale's file",
		Long: `Write one entry into a locale file.

Dotted keys create nested objects. The file is created when missing.
Use --locale to target a locale other than the active one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			key, value := strings.TrimSpace(args[0]), args[1]
			if key == "" {
				return errors.New("key must not be empty")
			}
			if !ws.project.LocaleSet().Contains(ws.active) {
				return issue.UnknownLocale(ws.active, ws.project.Locales())
			}

			path := ws.project.LocalePath(ws.active)
			if err := ws.repo.SetEntry(path, key, value); err != nil {
				return issue.EntryWriteFailed(path, key, err)
			}
			fmt.Fprintln(app.stdout, render.TitleStyle.Render("✓ ")+
				ws.labels.T(messages.EntryWritten, map[string]any{"Key": key, "Path": path}))
			return nil
		},
	}
}
