// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/keylens/keylens/internal/issue"
	"github.com/keylens/keylens/internal/render"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags of one command tree.
type rootFlagValues struct {
	configPath string
	root       string
	locale     string
	verbose    bool
}

// NewRootCommand builds the keylens command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keylens",
		Short: "Resolve localization calls against project locale files",
		Long: render.TitleStyle.Render("keylens") + render.MutedStyle.Render(" - see what your message calls say") + `

keylens finds message-function calls such as m.greeting() or
m["login.title"]() in source files and looks each key up in the
project's locale files, falling back across every configured locale.

` + render.MutedStyle.Render("Examples:") + `
  keylens resolve src/routes/+page.svelte   Annotate every call in a file
  keylens tree src/App.tsx                  Show keys grouped by state
  keylens hover login.title                 Show one key in every locale
  keylens set login.title "Anmelden" -l de  Write a single entry
  keylens watch src/App.tsx                 Keep results live while editing`,
		SilenceUsage: true,
	}

	flags := &rootFlagValues{}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/keylens/config.cue)")
	pf.StringVar(&flags.root, "root", "", "project root (default: nearest directory with project.inlang/settings.json)")
	pf.StringVarP(&flags.locale, "locale", "l", "", "active locale override")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newResolveCommand(app, flags),
		newTreeCommand(app, flags),
		newHoverCommand(app, flags),
		newSetCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
		newLocaleCommand(app, flags),
	)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process on failure. It is called by
// main.main.
func Execute() {
	app := NewApp(Dependencies{})
	err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints actionable errors with their suggestions and guidance
// and defers everything else to fang.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}
	fmt.Fprintln(w, formatErrorForDisplay(err, a.verbose, a.glamourStyle))
}

// formatErrorForDisplay renders err for the terminal. Actionable errors get
// their suggestions and, when they carry one, the catalog guidance rendered
// with glamour.
func formatErrorForDisplay(err error, verbose bool, style string) string {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return render.ErrorStyle.Render("Error: ") + err.Error()
	}
	out := render.ErrorStyle.Render("Error: ") + ae.Format(verbose)
	if guide := ae.Guidance(); guide != nil {
		if rendered, renderErr := guide.Render(style); renderErr == nil {
			out += "\n" + rendered
		}
	}
	return out
}
