// SPDX-License-Identifier: MPL-2.0

package render

import (
	"sync"

	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/resolve"
)

var english = sync.OnceValue(func() *messages.Catalog { return messages.New("en") })

// Labels are the localized words renderings are built from.
type Labels struct {
	catalog *messages.Catalog
}

// NewLabels renders with catalog. A nil catalog, like the zero Labels,
// renders English.
func NewLabels(catalog *messages.Catalog) Labels {
	return Labels{catalog: catalog}
}

func (l Labels) cat() *messages.Catalog {
	if l.catalog == nil {
		return english()
	}
	return l.catalog
}

// Missing is the hint for an unresolved call.
func (l Labels) Missing() string {
	return l.cat().T(messages.HintMissing, nil)
}

// FoundIn is the suffix naming a fallback locale.
func (l Labels) FoundIn(locale string) string {
	return l.cat().T(messages.HintFoundIn, map[string]any{"Locale": locale})
}

// State names a resolution state.
func (l Labels) State(s resolve.State) string {
	switch s {
	case resolve.Resolved:
		return l.cat().T(messages.StateResolved, nil)
	case resolve.ResolvedElsewhere:
		return l.cat().T(messages.StateResolvedElsewhere, nil)
	default:
		return l.cat().T(messages.StateUnresolved, nil)
	}
}

// Occurrences counts call sites.
func (l Labels) Occurrences(n int) string {
	return l.cat().Plural(messages.TreeOccurrences, n, nil)
}

// Keys counts distinct keys.
func (l Labels) Keys(n int) string {
	return l.cat().Plural(messages.TreeKeys, n, nil)
}

// T exposes the catalog for one-off messages.
func (l Labels) T(id string, data map[string]any) string {
	return l.cat().T(id, data)
}
