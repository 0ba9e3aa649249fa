// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive. Editors
// commonly write a temp file and rename it; the window absorbs both events.
const DefaultDebounce = 200 * time.Millisecond

const (
	// OpWrite covers both content writes and creation of a new file.
	OpWrite Op = iota
	// OpRemove covers removal and rename-away.
	OpRemove
)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// defaultIgnores hold directories produced by package managers, bundlers and
// VCS tooling in web projects, plus editor swap files.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/.svelte-kit/**",
	"**/.next/**",
	"**/.nuxt/**",
	"**/.astro/**",
	"**/dist/**",
	"**/.turbo/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Op is the coalesced kind of a change.
	Op int

	// Change is one path that changed during a debounce window.
	Change struct {
		// Path is relative to the watcher's base directory, slash separated.
		Path string
		Op   Op
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the directory to watch recursively. Empty means the
		// current working directory.
		BaseDir string

		// Patterns select which paths are reported. Empty reports everything
		// that is not ignored.
		Patterns []string

		// Ignore is merged with the built-in ignores.
		Ignore []string

		Debounce time.Duration

		// OnChange receives each batch. Batches are never delivered
		// concurrently; a nil callback discards them.
		OnChange func(ctx context.Context, changes []Change) error

		Logger *log.Logger
	}

	// Watcher monitors BaseDir. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		debounce time.Duration
		baseDir  string
		logger   *log.Logger
		started  atomic.Bool
	}
)

// String returns the lower-case op name.
func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Validate checks that every glob parses and that BaseDir, when set, is not
// blank.
func (c Config) Validate() error {
	var errs []error
	if c.BaseDir != "" && strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, errors.New("watch: base directory is blank"))
	}
	if err := validatePatterns(c.Patterns, "watch"); err != nil {
		errs = append(errs, err)
	}
	if err := validatePatterns(c.Ignore, "ignore"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// New validates cfg, resolves BaseDir and registers every non-ignored
// directory beneath it.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: debounce,
		baseDir:  absBase,
		logger:   logger.With("component", "watch"),
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			w.logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// BaseDir returns the absolute directory being watched.
func (w *Watcher) BaseDir() string {
	return w.baseDir
}

// Run processes events until ctx is cancelled. Clean cancellation returns
// nil; resource exhaustion in the OS watcher is returned as an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]Op)
		timer   *time.Timer
		busy    atomic.Bool
	)

	// deliver runs on the timer goroutine. A batch that becomes due while the
	// previous callback is still running is postponed rather than dropped.
	deliver := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("callback busy, postponing batch")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		batch := drain(pending)
		mu.Unlock()
		if len(batch) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, batch); err != nil {
			w.logger.Error("change callback failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			rel, op, report := w.classify(evt)
			if !report {
				continue
			}
			mu.Lock()
			pending[rel] = op
			if timer == nil {
				timer = time.AfterFunc(w.debounce, deliver)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// classify turns a raw event into a relative path and op, extending the
// watch to newly created directories on the way.
func (w *Watcher) classify(evt fsnotify.Event) (string, Op, bool) {
	if evt.Op == fsnotify.Chmod {
		return "", 0, false
	}
	rel, err := filepath.Rel(w.baseDir, evt.Name)
	if err != nil {
		return "", 0, false
	}
	rel = filepath.ToSlash(rel)
	if w.isIgnored(rel) {
		return "", 0, false
	}

	if evt.Has(fsnotify.Create) && w.maybeAddDir(evt.Name, rel) {
		return "", 0, false
	}
	if !w.matchesPatterns(rel) {
		return "", 0, false
	}

	op := OpWrite
	if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
		op = OpRemove
	}
	return rel, op, true
}

func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Debug("skipping inaccessible path", "path", path, "err", walkErr)
			return nil //nolint:nilerr // inaccessible subtrees are skipped
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // cannot happen below baseDir
		}
		if w.isIgnoredDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

// maybeAddDir registers path when it is a new, non-ignored directory and
// reports whether it was a directory at all.
func (w *Watcher) maybeAddDir(path, rel string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if w.isIgnoredDir(rel) {
		return true
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "err", err)
	}
	return true
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func drain(pending map[string]Op) []Change {
	batch := make([]Change, 0, len(pending))
	for path, op := range pending {
		batch = append(batch, Change{Path: path, Op: op})
	}
	clear(pending)
	slices.SortFunc(batch, func(a, b Change) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return batch
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if strings.TrimSpace(pat) == "" {
			return fmt.Errorf("watch: empty %s pattern", label)
		}
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
