// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"github.com/keylens/keylens/internal/config"
	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/render"
	"github.com/keylens/keylens/internal/resolve"
	"github.com/keylens/keylens/internal/session"
	"github.com/keylens/keylens/internal/watch"

	"github.com/spf13/cobra"
)

type (
	// printSink writes every publication as a block of hints. Texts are
	// remembered so offsets can be shown as line:col.
	printSink struct {
		w      io.Writer
		labels render.Labels

		mu    sync.Mutex
		texts map[string]string
	}

	// liveRunner connects watcher batches to a session.
	liveRunner struct {
		app     *App
		flags   *rootFlagValues
		ws      *workspace
		session *session.Session
		sink    *printSink
		// tracked limits source events to these absolute paths; empty tracks
		// every supported file.
		tracked []string
	}
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [FILE...]",
		Short: "Keep resolution live while files change",
		Long: `Resolve the given files, then keep watching the project.

Saving a tracked source file re-resolves it. Changing any locale file
re-resolves the most recently changed source file. Editing keylens.cue in
the project root applies the new configuration without a restart.
Without FILE arguments every supported source file is tracked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.open(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), app, flags, ws, args)
		},
	}
}

func runWatch(ctx context.Context, app *App, flags *rootFlagValues, ws *workspace, files []string) error {
	sink := &printSink{w: app.stdout, labels: ws.labels, texts: make(map[string]string)}
	r := &liveRunner{
		app:   app,
		flags: flags,
		ws:    ws,
		sink:  sink,
		session: session.New(session.Options{
			Context:    ctx,
			Project:    ws.project,
			Config:     ws.cfg,
			Repository: ws.repo,
			Sink:       sink,
			Logger:     ws.logger,
		}),
	}
	defer r.session.Close()

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		r.tracked = append(r.tracked, abs)
		r.saved(abs)
	}

	w, err := watch.New(watch.Config{
		BaseDir:  ws.project.Root(),
		Debounce: watch.DefaultDebounce,
		OnChange: r.onChange,
		Logger:   ws.logger,
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	fmt.Fprintln(app.stdout, render.MutedStyle.Render(
		ws.labels.T(messages.WatchStarted, map[string]any{"Dir": w.BaseDir()})))
	return w.Run(ctx)
}

func (r *liveRunner) onChange(ctx context.Context, changes []watch.Change) error {
	for _, c := range changes {
		abs := filepath.Join(r.ws.project.Root(), filepath.FromSlash(c.Path))
		switch {
		case c.Path == config.LocalConfigFile:
			r.reloadConfig(ctx)
		case r.ws.project.IsLocaleFile(abs):
			r.session.LocaleDataChanged(abs)
		case c.Op == watch.OpRemove:
		case len(r.tracked) == 0 || slices.Contains(r.tracked, abs):
			r.saved(abs)
		}
	}
	return nil
}

// saved reads path and hands it to the session as a save.
func (r *liveRunner) saved(path string) {
	doc := session.Document{Path: path}
	if !r.session.Supported(doc) {
		return
	}
	text, err := readSource(path)
	if err != nil {
		r.ws.logger.Warn("skipping unreadable file", "path", path, "err", err)
		return
	}
	doc.Text = text
	r.sink.remember(path, text)
	r.session.Saved(doc)
}

func (r *liveRunner) reloadConfig(ctx context.Context) {
	cfg, err := r.app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: r.flags.configPath,
		BaseDir:        r.ws.project.Root(),
	})
	if err != nil {
		r.ws.logger.Error("configuration reload failed", "err", err)
		return
	}
	if r.flags.locale != "" {
		cfg.Locale.Override = r.flags.locale
	}
	r.ws.logger.Info("configuration reloaded")
	r.session.ConfigChanged(cfg)
}

func (s *printSink) remember(path, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[path] = text
}

// Publish prints the hints for target.
func (s *printSink) Publish(target string, calls []resolve.ResolvedCall) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.texts[target]
	fmt.Fprintln(s.w, render.TitleStyle.Render(target))
	if len(calls) == 0 {
		fmt.Fprintln(s.w, "  "+render.MutedStyle.Render(s.labels.T(messages.NoCalls, nil)))
	}
	for _, call := range calls {
		line, col := render.Position(text, call.Start)
		fmt.Fprintf(s.w, "  %s %s → %s\n",
			render.MutedStyle.Render(fmt.Sprintf("%d:%d", line, col)), call.Key, render.StyledHint(call, s.labels))
	}
	fmt.Fprintln(s.w)
}

// Clear is a no-op: the terminal keeps its history.
func (s *printSink) Clear() {}
