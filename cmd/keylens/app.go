// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/keylens/keylens/internal/config"
	"github.com/keylens/keylens/internal/issue"
	"github.com/keylens/keylens/internal/localedata"
	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/project"
	"github.com/keylens/keylens/internal/render"
	"github.com/keylens/keylens/internal/resolve"
	"github.com/keylens/keylens/internal/scan"

	"github.com/charmbracelet/log"
)

type (
	// App is the composition root of the CLI. Command handlers receive it and
	// assemble a workspace per invocation.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		// Set by open so the fang error handler can honor them.
		verbose      bool
		glamourStyle string
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// workspace is everything a command needs for one project.
	workspace struct {
		cfg      *config.Config
		project  *project.Project
		repo     *localedata.Repository
		pipeline *resolve.Pipeline
		logger   *log.Logger
		labels   render.Labels
		style    string
		active   string
		tier     project.Tier
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:       deps.Config,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		glamourStyle: string(config.ColorSchemeAuto),
	}
}

// open loads configuration and the project selected by flags.
func (a *App) open(ctx context.Context, flags *rootFlagValues) (*workspace, error) {
	a.verbose = flags.verbose

	root := flags.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		root = project.FindRoot(wd)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath, BaseDir: root})
	if err != nil {
		return nil, err
	}
	if flags.locale != "" {
		cfg.Locale.Override = flags.locale
	}
	a.glamourStyle = string(cfg.UI.ColorScheme)

	logger := newLogger(a.stderr, cfg, flags.verbose)
	if cfg.Source != "" {
		logger.Debug("configuration loaded", "path", cfg.Source)
	}

	p, err := project.Load(root, logger)
	if err != nil {
		return nil, err
	}

	active, tier := p.ActiveLocale(cfg.Locale.Override)
	if !p.LocaleSet().Contains(active) {
		logger.Warn("active locale is not configured for this project", "locale", active, "locales", p.Locales())
	}

	return &workspace{
		cfg:      cfg,
		project:  p,
		repo:     localedata.NewRepository(logger),
		pipeline: resolve.NewPipeline(scan.New(cfg.Scan.Namespace), logger),
		logger:   logger,
		labels:   render.NewLabels(messages.New(messages.Detect(cfg.UI.Language))),
		style:    string(cfg.UI.ColorScheme),
		active:   active,
		tier:     tier,
	}, nil
}

// source returns a locale data source for one pass.
func (ws *workspace) source() resolve.Source {
	return ws.project.Source(ws.repo)
}

// resolveText runs one pass over text.
func (ws *workspace) resolveText(ctx context.Context, text string) []resolve.ResolvedCall {
	return ws.pipeline.Run(ctx, text, ws.source(), ws.active, ws.project.LocaleSet())
}

// readSource reads a source document, reporting failures as actionable errors.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", issue.SourceUnreadable(path, err)
	}
	return string(data), nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	level := cfg.Log.Level.Level()
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
