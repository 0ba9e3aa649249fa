// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// LogLevelDebug logs every pass and every unresolved key.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs malformed files and invalid locale tags only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"

	maxDebounceMs = 10000
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidNamespace is returned when the scan namespace is not an identifier.
	ErrInvalidNamespace = errors.New("invalid scan namespace")
	// ErrInvalidDebounce is returned when the debounce is out of range.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

type (
	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// InvalidLogLevelError wraps ErrInvalidLogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorScheme selects the terminal palette.
	ColorScheme string

	// InvalidColorSchemeError wraps ErrInvalidColorScheme.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidNamespaceError wraps ErrInvalidNamespace.
	InvalidNamespaceError struct {
		Value string
	}

	// InvalidDebounceError wraps ErrInvalidDebounce.
	InvalidDebounceError struct {
		Value int
	}

	// InvalidConfigError collects field-level validation errors and wraps
	// ErrInvalidConfig.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		LiveUpdates LiveUpdatesConfig `json:"live_updates" mapstructure:"live_updates"`
		Locale      LocaleConfig      `json:"locale" mapstructure:"locale"`
		Scan        ScanConfig        `json:"scan" mapstructure:"scan"`
		Log         LogConfig         `json:"log" mapstructure:"log"`
		UI          UIConfig          `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from; empty when
		// only defaults and environment applied.
		Source string `json:"-" mapstructure:"-"`
	}

	// LiveUpdatesConfig controls resolution while typing.
	LiveUpdatesConfig struct {
		Enabled    bool `json:"enabled" mapstructure:"enabled"`
		DebounceMs int  `json:"debounce_ms" mapstructure:"debounce_ms"`
	}

	// LocaleConfig selects the active locale.
	LocaleConfig struct {
		// Override takes precedence over the project's base locale.
		Override string `json:"override" mapstructure:"override"`
	}

	// ScanConfig configures call scanning.
	ScanConfig struct {
		Namespace string `json:"namespace" mapstructure:"namespace"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Language    string      `json:"language" mapstructure:"language"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LiveUpdates: LiveUpdatesConfig{Enabled: true, DebounceMs: 300},
		Scan:        ScanConfig{Namespace: "m"},
		Log:         LogConfig{Level: LogLevelInfo},
		UI:          UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// Debounce returns the live-update quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.LiveUpdates.DebounceMs) * time.Millisecond
}

// IsValid checks constraints that environment overrides could break after
// schema validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if !identifierPattern.MatchString(c.Scan.Namespace) {
		errs = append(errs, &InvalidNamespaceError{Value: c.Scan.Namespace})
	}
	if c.LiveUpdates.DebounceMs < 0 || c.LiveUpdates.DebounceMs > maxDebounceMs {
		errs = append(errs, &InvalidDebounceError{Value: c.LiveUpdates.DebounceMs})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid reports whether l is a known level.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Level converts l to a charmbracelet/log level, defaulting to info.
func (l LogLevel) Level() log.Level {
	lvl, err := log.ParseLevel(string(l))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (l LogLevel) String() string { return string(l) }

// IsValid reports whether cs is a known scheme.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func (cs ColorScheme) String() string { return string(cs) }

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("invalid scan namespace %q: must be an identifier", e.Value)
}

func (e *InvalidNamespaceError) Unwrap() error { return ErrInvalidNamespace }

func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %dms (valid: 0..%d)", e.Value, maxDebounceMs)
}

func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap exposes the sentinel and every field error to errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
