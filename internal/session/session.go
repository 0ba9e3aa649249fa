// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/keylens/keylens/internal/config"
	"github.com/keylens/keylens/internal/localedata"
	"github.com/keylens/keylens/internal/project"
	"github.com/keylens/keylens/internal/refresh"
	"github.com/keylens/keylens/internal/resolve"
	"github.com/keylens/keylens/internal/scan"

	"github.com/charmbracelet/log"
)

// sourceExtensions are the file types message calls are looked for in.
var sourceExtensions = []string{
	".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts",
	".svelte", ".vue", ".astro",
}

type (
	// Document is an open document and its full current text. Path doubles as
	// the refresh target.
	Document struct {
		Path string
		Text string
	}

	// Options configures a Session. Project and Sink are required.
	Options struct {
		Context    context.Context
		Project    *project.Project
		Config     *config.Config
		Repository *localedata.Repository
		Sink       refresh.Sink
		// Clock drives debounce and clear-grace timers; nil is the wall clock.
		Clock  refresh.Clock
		Logger *log.Logger
	}

	// Session routes events for one project. It is safe for concurrent use.
	Session struct {
		project *project.Project
		source  resolve.Source
		coord   *refresh.Coordinator
		base    *log.Logger
		logger  *log.Logger

		mu       sync.Mutex
		pipeline *resolve.Pipeline
		live     bool
		override string
		// lastSource is the most recent supported non-locale document seen,
		// re-run when locale data or configuration changes.
		lastSource *Document
	}
)

// New wires a Session. A nil Config selects config.DefaultConfig and a nil
// Repository a fresh one.
func New(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	repo := opts.Repository
	if repo == nil {
		repo = localedata.NewRepository(logger)
	}

	s := &Session{
		project:  opts.Project,
		source:   opts.Project.Source(repo),
		base:     logger,
		logger:   logger.With("component", "session"),
		pipeline: resolve.NewPipeline(scan.New(cfg.Scan.Namespace), logger),
		live:     cfg.LiveUpdates.Enabled,
		override: cfg.Locale.Override,
	}
	s.coord = refresh.New(refresh.Options{
		Context:    opts.Context,
		Pass:       s.pass,
		Sink:       opts.Sink,
		Scheduler:  refresh.NewTimerScheduler(opts.Clock),
		Classifier: refresh.ClassifierFunc(s.isLocaleData),
		Delay:      debounceOf(cfg),
		Logger:     logger,
	})
	return s
}

// Supported reports whether doc is a source file calls are resolved in or one
// of the project's locale files.
func (s *Session) Supported(doc Document) bool {
	if doc.Path == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(doc.Path))
	return slices.Contains(sourceExtensions, ext) || s.project.IsLocaleFile(doc.Path)
}

// TextChanged debounces a pass over doc. It is ignored while live updates are
// off and for unsupported documents.
func (s *Session) TextChanged(doc Document) {
	s.mu.Lock()
	live := s.live
	s.mu.Unlock()
	if !live || !s.Supported(doc) {
		return
	}
	s.remember(doc)
	s.coord.Debounce(refresh.Request{Target: doc.Path, Text: doc.Text})
}

// Saved runs a pass over doc right away.
func (s *Session) Saved(doc Document) {
	if !s.Supported(doc) {
		return
	}
	s.remember(doc)
	s.coord.Immediate(refresh.Request{Target: doc.Path, Text: doc.Text})
}

// ActiveChanged reacts to a focus change. A nil or unsupported document
// clears the output after a grace period.
func (s *Session) ActiveChanged(doc *Document) {
	if doc == nil || !s.Supported(*doc) {
		s.mu.Lock()
		s.lastSource = nil
		s.mu.Unlock()
		s.coord.Request(refresh.Request{Target: refresh.Cleared})
		return
	}
	s.remember(*doc)
	s.coord.Immediate(refresh.Request{Target: doc.Path, Text: doc.Text})
}

// LocaleDataChanged re-runs the most recent source document against the
// changed data. path is only logged.
func (s *Session) LocaleDataChanged(path string) {
	s.logger.Debug("locale data changed", "path", path)
	s.rerun()
}

// ForceRefresh runs a pass over doc now. With force set, a locale file is
// scanned instead of having the previous result re-announced.
func (s *Session) ForceRefresh(doc Document, force bool) {
	if !s.Supported(doc) {
		return
	}
	s.remember(doc)
	s.coord.Immediate(refresh.Request{Target: doc.Path, Text: doc.Text, Force: force})
}

// ConfigChanged applies cfg and re-runs the most recent source document.
func (s *Session) ConfigChanged(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.live = cfg.LiveUpdates.Enabled
	s.override = cfg.Locale.Override
	if cfg.Scan.Namespace != s.pipeline.Scanner().Namespace() {
		s.pipeline = resolve.NewPipeline(scan.New(cfg.Scan.Namespace), s.base)
	}
	s.mu.Unlock()

	s.coord.SetDelay(debounceOf(cfg))
	s.rerun()
}

// ActiveLocale returns the locale passes resolve against and the tier that
// chose it.
func (s *Session) ActiveLocale() (string, project.Tier) {
	s.mu.Lock()
	override := s.override
	s.mu.Unlock()
	return s.project.ActiveLocale(override)
}

// Project returns the session's project.
func (s *Session) Project() *project.Project {
	return s.project
}

// Wait blocks until no pass is in flight.
func (s *Session) Wait() {
	s.coord.Wait()
}

// Close cancels pending timers and waits for in-flight passes.
func (s *Session) Close() {
	s.coord.Close()
}

func (s *Session) rerun() {
	s.mu.Lock()
	last := s.lastSource
	s.mu.Unlock()
	if last == nil {
		return
	}
	s.coord.Immediate(refresh.Request{Target: last.Path, Text: last.Text, Force: true})
}

func (s *Session) remember(doc Document) {
	if s.project.IsLocaleFile(doc.Path) {
		return
	}
	s.mu.Lock()
	s.lastSource = &doc
	s.mu.Unlock()
}

func (s *Session) isLocaleData(target string) bool {
	return s.project.IsLocaleFile(target)
}

func (s *Session) pass(ctx context.Context, req refresh.Request) []resolve.ResolvedCall {
	s.mu.Lock()
	pipeline := s.pipeline
	s.mu.Unlock()

	active, _ := s.ActiveLocale()
	return pipeline.Run(ctx, req.Text, s.source, active, s.project.LocaleSet())
}

// debounceOf maps the configured delay onto the coordinator, where zero
// would mean "use the default".
func debounceOf(cfg *config.Config) time.Duration {
	if cfg.LiveUpdates.DebounceMs <= 0 {
		return -1
	}
	return cfg.Debounce()
}
