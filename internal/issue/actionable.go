// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/keylens/keylens/internal/localedata"
)

// ActionableError is a failure the user can fix. The constructors below fill
// it for each failure class keylens reports. Issue links the catalog entry
// rendered under the message.
type ActionableError struct {
	// Operation is what keylens was doing, as a verb phrase.
	Operation string
	// Resource is the file or locale involved, if any.
	Resource    string
	Suggestions []string
	Cause       error
	Issue       Id
}

// ConfigLoadFailed reports a configuration that could not be loaded. An empty
// path means the values came from KEYLENS_* environment variables.
func ConfigLoadFailed(path string, cause error) *ActionableError {
	e := &ActionableError{
		Operation: "load configuration",
		Resource:  path,
		Cause:     cause,
		Issue:     ConfigLoadFailedId,
	}
	switch {
	case path == "":
		e.Suggestions = []string{"Check KEYLENS_* environment variables for typos"}
	case errors.Is(cause, fs.ErrNotExist):
		e.Suggestions = []string{
			"Verify the path passed with --config",
			"Run 'keylens config init' to create a default configuration",
		}
	default:
		e.Suggestions = []string{
			"Check that the file contains valid CUE syntax",
			"Run 'keylens config show' to see the effective configuration",
		}
	}
	return e
}

// SettingsInvalid reports a project settings file that exists but is unusable.
func SettingsInvalid(path string, cause error) *ActionableError {
	return &ActionableError{
		Operation: "load project settings",
		Resource:  path,
		Suggestions: []string{
			"Check that the file is valid JSON",
			"Make sure 'locales' is a list of BCP 47 tags such as \"en\" or \"pt-BR\"",
		},
		Cause: cause,
		Issue: ProjectSettingsInvalidId,
	}
}

// SourceUnreadable reports a source document that could not be read.
func SourceUnreadable(path string, cause error) *ActionableError {
	return &ActionableError{
		Operation:   "read source file",
		Resource:    path,
		Suggestions: []string{"Check that the path is correct and the file is readable"},
		Cause:       cause,
		Issue:       SourceFileUnreadableId,
	}
}

// UnknownLocale reports an active locale the project does not configure.
func UnknownLocale(locale string, configured []string) *ActionableError {
	return &ActionableError{
		Operation:   "write locale entry",
		Resource:    locale,
		Suggestions: []string{"Configured locales: " + strings.Join(configured, ", ")},
		Cause:       fmt.Errorf("locale %q is not configured", locale),
		Issue:       UnknownLocaleId,
	}
}

// EntryWriteFailed reports a failed entry write into the locale file at
// path. The guidance follows the localedata error in cause.
func EntryWriteFailed(path, key string, cause error) *ActionableError {
	e := &ActionableError{
		Operation: "write locale entry " + key,
		Resource:  path,
		Cause:     cause,
	}
	switch {
	case errors.Is(cause, localedata.ErrReadOnlyFormat):
		e.Issue = LocaleFormatReadOnlyId
		e.Suggestions = []string{"Edit the CUE file by hand, or switch the path pattern to .json, .yaml or .toml"}
	case errors.Is(cause, localedata.ErrKeyConflict):
		e.Issue = LocaleKeyConflictId
		e.Suggestions = []string{"Pick a key that does not pass through an existing text entry"}
	case errors.Is(cause, localedata.ErrMalformedData):
		e.Issue = LocaleFileMalformedId
		e.Suggestions = []string{"Fix the syntax error first; keylens does not overwrite files it cannot parse"}
	case errors.Is(cause, localedata.ErrNotFound):
		e.Issue = LocaleFileNotFoundId
	}
	return e
}

// Error returns a one-line message: "cannot <operation> <resource>: <cause>".
func (e *ActionableError) Error() string {
	var b strings.Builder
	b.WriteString("cannot ")
	b.WriteString(e.Operation)
	if e.Resource != "" {
		b.WriteString(" ")
		b.WriteString(e.Resource)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by one "hint:" line per suggestion.
// verbose adds every error in the cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, s := range e.Suggestions {
		b.WriteString("\n  hint: ")
		b.WriteString(s)
	}
	if verbose && e.Cause != nil {
		b.WriteString("\n\ncaused by:")
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			b.WriteString("\n  - ")
			b.WriteString(err.Error())
		}
	}
	return b.String()
}

// Guidance returns the catalog entry linked to the error, or nil.
func (e *ActionableError) Guidance() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}
