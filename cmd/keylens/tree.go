// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/keylens/keylens/internal/render"

	"github.com/spf13/cobra"
)

func newTreeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Show locales and the keys used in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			text, err := readSource(args[0])
			if err != nil {
				return err
			}
			calls := ws.resolveText(cmd.Context(), text)
			nodes := render.Tree(ws.active, ws.project.LocaleSet(), calls)
			fmt.Fprint(app.stdout, render.RenderTree(nodes, ws.labels))
			return nil
		},
	}
}
