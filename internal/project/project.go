// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/keylens/keylens/internal/issue"
	"github.com/keylens/keylens/internal/resolve"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	// SettingsFile is the settings location relative to the project root.
	SettingsFile = "project.inlang/settings.json"
	// DefaultLocale is used when neither an override nor a project base
	// locale is available.
	DefaultLocale = "en"
	// DefaultPathPattern locates locale files when the settings name none.
	DefaultPathPattern = "./messages/{locale}.json"
	// LocalePlaceholder is substituted with a locale identifier in path patterns.
	LocalePlaceholder = "{locale}"

	// keyDelim replaces viper's "." so that dotted JSON keys such as
	// "plugin.inlang.messageFormat" stay single keys.
	keyDelim = "::"
)

const (
	// TierOverride means the locale came from an explicit override.
	TierOverride Tier = iota
	// TierProject means the locale is the project's declared base locale.
	TierProject
	// TierDefault means the built-in DefaultLocale was used.
	TierDefault
)

// ErrInvalidSettings is wrapped by errors describing unusable settings files.
var ErrInvalidSettings = errors.New("invalid project settings")

type (
	// Tier tells which source chose the active locale.
	Tier int

	// Project is an immutable view of a localized project.
	Project struct {
		root         string
		settingsPath string
		baseLocale   string
		declaredBase bool
		locales      []string
		pathPattern  string
	}

	// InvalidSettingsError reports a settings file that exists but cannot be used.
	InvalidSettingsError struct {
		Path   string
		Reason string
	}
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierProject:
		return "project"
	case TierDefault:
		return "default"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("invalid project settings %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidSettings for errors.Is() compatibility.
func (e *InvalidSettingsError) Unwrap() error { return ErrInvalidSettings }

// Load reads the project rooted at root. A missing settings file is not an
// error; a present but unreadable one is. Locale identifiers that are not
// valid BCP 47 tags are kept and reported through logger.
func Load(root string, logger *log.Logger) (*Project, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("component", "project")

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	p := &Project{
		root:        absRoot,
		baseLocale:  DefaultLocale,
		pathPattern: DefaultPathPattern,
	}

	settingsPath := filepath.Join(absRoot, filepath.FromSlash(SettingsFile))
	if _, statErr := os.Stat(settingsPath); statErr == nil {
		if err := p.readSettings(settingsPath); err != nil {
			return nil, issue.SettingsInvalid(settingsPath, err)
		}
		p.settingsPath = settingsPath
	} else {
		logger.Debug("no project settings, using defaults", "root", absRoot)
	}

	if !slices.Contains(p.locales, p.baseLocale) {
		p.locales = append([]string{p.baseLocale}, p.locales...)
	}
	for _, locale := range p.locales {
		if _, err := language.Parse(locale); err != nil {
			logger.Warn("locale is not a valid BCP 47 tag", "locale", locale, "err", err)
		}
	}
	return p, nil
}

func (p *Project) readSettings(settingsPath string) error {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))
	v.SetConfigFile(settingsPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return &InvalidSettingsError{Path: settingsPath, Reason: err.Error()}
	}

	if v.IsSet("baseLocale") {
		base, ok := v.Get("baseLocale").(string)
		if !ok || strings.TrimSpace(base) == "" {
			return &InvalidSettingsError{Path: settingsPath, Reason: "baseLocale must be a non-empty string"}
		}
		p.baseLocale = strings.TrimSpace(base)
		p.declaredBase = true
	}

	if v.IsSet("locales") {
		raw, ok := v.Get("locales").([]any)
		if !ok {
			return &InvalidSettingsError{Path: settingsPath, Reason: "locales must be a list"}
		}
		for i, item := range raw {
			locale, ok := item.(string)
			if !ok || strings.TrimSpace(locale) == "" {
				return &InvalidSettingsError{Path: settingsPath, Reason: fmt.Sprintf("locales[%d] must be a non-empty string", i)}
			}
			if locale = strings.TrimSpace(locale); !slices.Contains(p.locales, locale) {
				p.locales = append(p.locales, locale)
			}
		}
	}

	for _, key := range []string{
		"plugin.inlang.messageFormat" + keyDelim + "pathPattern",
		"pathPattern",
	} {
		if pattern := v.GetString(key); pattern != "" {
			p.pathPattern = pattern
			break
		}
	}
	if !strings.Contains(p.pathPattern, LocalePlaceholder) {
		return &InvalidSettingsError{Path: settingsPath, Reason: "pathPattern must contain " + LocalePlaceholder}
	}
	return nil
}

// Root returns the absolute project root.
func (p *Project) Root() string { return p.root }

// SettingsPath returns the settings file that was read, or "" when the
// project uses defaults.
func (p *Project) SettingsPath() string { return p.settingsPath }

// BaseLocale returns the project's base locale.
func (p *Project) BaseLocale() string { return p.baseLocale }

// Locales returns the declared locales in order, base locale included.
func (p *Project) Locales() []string { return slices.Clone(p.locales) }

// PathPattern returns the locale file pattern.
func (p *Project) PathPattern() string { return p.pathPattern }

// LocaleSet returns the ordered locale list used by fallback search.
func (p *Project) LocaleSet() resolve.LocaleSet {
	return resolve.LocaleSet{Base: p.baseLocale, Locales: p.Locales()}
}

// LocalePath returns the absolute path of locale's data file.
func (p *Project) LocalePath(locale string) string {
	rel := strings.ReplaceAll(p.pathPattern, LocalePlaceholder, locale)
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

// IsLocaleFile reports whether file matches the locale path pattern. Relative
// paths are taken relative to the project root.
func (p *Project) IsLocaleFile(file string) bool {
	if file == "" {
		return false
	}
	glob := path.Clean(filepath.ToSlash(strings.ReplaceAll(p.pathPattern, LocalePlaceholder, "*")))

	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.root, abs)
	}
	target := filepath.ToSlash(filepath.Clean(abs))
	if !path.IsAbs(glob) {
		// Match relative to the root so glob metacharacters in the root
		// path itself cannot interfere.
		rel, err := filepath.Rel(p.root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
		target = filepath.ToSlash(rel)
	}
	ok, err := doublestar.Match(glob, target)
	return err == nil && ok
}

// LocaleOf returns the locale whose data file is file, if any.
func (p *Project) LocaleOf(file string) (string, bool) {
	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.root, abs)
	}
	abs = filepath.Clean(abs)
	for _, locale := range p.locales {
		if p.LocalePath(locale) == abs {
			return locale, true
		}
	}
	return "", false
}

// ActiveLocale picks the locale to resolve against: override when set,
// else the declared base locale, else DefaultLocale.
func (p *Project) ActiveLocale(override string) (string, Tier) {
	if override = strings.TrimSpace(override); override != "" {
		return override, TierOverride
	}
	if p.declaredBase {
		return p.baseLocale, TierProject
	}
	return DefaultLocale, TierDefault
}

// Source returns a resolve.Source reading this project's locale files
// through loader.
func (p *Project) Source(loader resolve.Loader) resolve.Source {
	return resolve.Files{Loader: loader, Locator: p}
}

// FindRoot walks up from start looking for a directory holding SettingsFile
// and returns it. When none is found, start itself is returned.
func FindRoot(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for dir := abs; ; {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(SettingsFile))); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		dir = parent
	}
}
