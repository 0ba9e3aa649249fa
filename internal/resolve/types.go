// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"slices"

	"github.com/keylens/keylens/internal/scan"
)

const (
	// Unresolved means no configured locale has a value for the key.
	Unresolved State = iota
	// Resolved means the active locale has a value.
	Resolved
	// ResolvedElsewhere means only another locale has a value.
	ResolvedElsewhere
)

type (
	// State is the outcome of resolving one call.
	State int

	// ResolvedCall is a scanned call plus its resolution.
	//
	// Value is nil exactly when State is Unresolved. FoundIn is set only for
	// ResolvedElsewhere and never equals the active locale.
	ResolvedCall struct {
		scan.Call
		Value   *string
		State   State
		FoundIn string
	}

	// LocaleSet is the ordered list of a project's locales plus its base locale.
	LocaleSet struct {
		Base    string
		Locales []string
	}

	// Hit is a value found in a locale other than the active one.
	Hit struct {
		Locale string
		Value  string
	}

	// LocaleValue is one locale's value for a key. Found is false when the
	// locale has no usable value.
	LocaleValue struct {
		Locale string
		Value  string
		Found  bool
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case ResolvedElsewhere:
		return "resolved-elsewhere"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Text returns the resolved value, or "" when unresolved.
func (c ResolvedCall) Text() string {
	if c.Value == nil {
		return ""
	}
	return *c.Value
}

// Equal reports whether two resolved calls carry the same call and outcome.
func (c ResolvedCall) Equal(o ResolvedCall) bool {
	if c.Call != o.Call || c.State != o.State || c.FoundIn != o.FoundIn {
		return false
	}
	if (c.Value == nil) != (o.Value == nil) {
		return false
	}
	return c.Value == nil || *c.Value == *o.Value
}

// Contains reports whether locale is in the set.
func (s LocaleSet) Contains(locale string) bool {
	return slices.Contains(s.Locales, locale)
}
