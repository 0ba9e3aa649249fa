// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/keylens/keylens/internal/localedata"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "cannot load configuration",
		},
		{
			name:     "with resource",
			err:      SourceUnreadable("src/App.tsx", nil),
			expected: "cannot read source file src/App.tsx",
		},
		{
			name:     "with cause",
			err:      EntryWriteFailed("messages/de.json", "nav.home", errors.New("permission denied")),
			expected: "cannot write locale entry nav.home messages/de.json: permission denied",
		},
		{
			name:     "environment config",
			err:      ConfigLoadFailed("", errors.New(`invalid log level "loud"`)),
			expected: `cannot load configuration: invalid log level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	var err error = SettingsInvalid("project.inlang/settings.json", fmt.Errorf("reading: %w", sentinel))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should see through the ActionableError")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Operation != "load project settings" {
		t.Errorf("errors.As() = %+v", ae)
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() without a cause should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := EntryWriteFailed("messages/de.cue", "title",
		fmt.Errorf("set entry: %w", localedata.ErrReadOnlyFormat))

	plain := err.Format(false)
	for _, want := range []string{
		"cannot write locale entry title messages/de.cue",
		"hint: Edit the CUE file by hand",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "caused by:") {
		t.Error("Format(false) should not include the cause chain")
	}

	verbose := err.Format(true)
	for _, want := range []string{"caused by:", "- set entry: locale format is read-only", "- locale format is read-only"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestEntryWriteFailed_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cause error
		want  Id
	}{
		{"read-only", localedata.ErrReadOnlyFormat, LocaleFormatReadOnlyId},
		{"conflict", &localedata.KeyConflictError{Key: "a.b", Segment: "a"}, LocaleKeyConflictId},
		{"malformed", &localedata.MalformedDataError{Path: "en.json", Format: localedata.FormatJSON, Cause: errors.New("x")}, LocaleFileMalformedId},
		{"not found", &localedata.NotFoundError{Path: "en.json"}, LocaleFileNotFoundId},
		{"other", errors.New("disk full"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := EntryWriteFailed("messages/en.json", "a.b", tt.cause)
			if e.Issue != tt.want {
				t.Errorf("Issue = %d, want %d", e.Issue, tt.want)
			}
			if tt.want == 0 {
				if e.Guidance() != nil {
					t.Error("Guidance() without an issue should be nil")
				}
				return
			}
			if g := e.Guidance(); g == nil || g.Id() != tt.want {
				t.Errorf("Guidance() = %v", g)
			}
		})
	}
}

func TestConfigLoadFailed_Suggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		err  error
		want string
	}{
		{"environment", "", errors.New("bad"), "KEYLENS_*"},
		{"missing file", "/x/config.cue", fmt.Errorf("config file not found: %w", fs.ErrNotExist), "--config"},
		{"bad file", "/x/config.cue", errors.New("syntax"), "valid CUE syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := ConfigLoadFailed(tt.path, tt.err)
			if e.Issue != ConfigLoadFailedId {
				t.Errorf("Issue = %d", e.Issue)
			}
			if !strings.Contains(strings.Join(e.Suggestions, "\n"), tt.want) {
				t.Errorf("Suggestions = %v, want one mentioning %q", e.Suggestions, tt.want)
			}
		})
	}
}

func TestUnknownLocale(t *testing.T) {
	t.Parallel()

	e := UnknownLocale("fr", []string{"en", "de"})
	if e.Issue != UnknownLocaleId || e.Resource != "fr" {
		t.Errorf("UnknownLocale() = %+v", e)
	}
	if len(e.Suggestions) != 1 || e.Suggestions[0] != "Configured locales: en, de" {
		t.Errorf("Suggestions = %v", e.Suggestions)
	}
}
