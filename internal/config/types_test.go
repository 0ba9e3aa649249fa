// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		want  bool
		lvl   log.Level
	}{
		{LogLevelDebug, true, log.DebugLevel},
		{LogLevelInfo, true, log.InfoLevel},
		{LogLevelWarn, true, log.WarnLevel},
		{LogLevelError, true, log.ErrorLevel},
		{"", false, log.InfoLevel},
		{"DEBUG", false, log.DebugLevel},
		{"verbose", false, log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.level.IsValid()
			if valid != tt.want {
				t.Errorf("LogLevel(%q).IsValid() = %v, want %v", tt.level, valid, tt.want)
			}
			if !tt.want && (len(errs) == 0 || !errors.Is(errs[0], ErrInvalidLogLevel)) {
				t.Errorf("expected ErrInvalidLogLevel, got %v", errs)
			}
			if got := tt.level.Level(); got != tt.lvl {
				t.Errorf("Level() = %v, want %v", got, tt.lvl)
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, _ := cs.IsValid(); !valid {
			t.Errorf("%q should be valid", cs)
		}
	}
	valid, errs := ColorScheme("sepia").IsValid()
	if valid || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("sepia: valid=%v errs=%v", valid, errs)
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Scan.Namespace = "1bad"
	cfg.LiveUpdates.DebounceMs = -5
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", valid, errs)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) || len(cfgErr.FieldErrors) != 3 {
		t.Fatalf("expected 3 field errors, got %v", errs[0])
	}
	for _, sentinel := range []error{ErrInvalidConfig, ErrInvalidNamespace, ErrInvalidDebounce, ErrInvalidColorScheme} {
		if !errors.Is(errs[0], sentinel) {
			t.Errorf("error should match %v", sentinel)
		}
	}
}
