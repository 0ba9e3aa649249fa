// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"strings"

	"github.com/keylens/keylens/internal/localedata"
)

const (
	// Separator splits a nested key into path segments.
	Separator = "."
	// VariantMarker is appended to values picked from a variant list, so a
	// consumer can tell derived text from a literal string.
	VariantMarker = "*"
)

// Resolve returns the display string for key in data.
//
// A dotted key is walked one segment at a time; when the walk fails the key
// is tried as a literal top-level entry, which keeps flat catalogs with
// dotted keys working. String leaves are returned verbatim. Variant lists
// yield the first record's first match value followed by VariantMarker. Any
// other leaf, and a nil data, resolve to ("", false).
func Resolve(data *localedata.Object, key string) (string, bool) {
	if data == nil || key == "" {
		return "", false
	}

	if strings.Contains(key, Separator) {
		if v, ok := walk(data, strings.Split(key, Separator)); ok {
			if s, ok := leaf(v); ok {
				return s, true
			}
		}
	}

	v, ok := data.Get(key)
	if !ok {
		return "", false
	}
	return leaf(v)
}

func walk(data *localedata.Object, segments []string) (any, bool) {
	var current any = data
	for _, seg := range segments {
		obj, ok := current.(*localedata.Object)
		if !ok {
			return nil, false
		}
		current, ok = obj.Get(seg)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func leaf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		return firstVariant(t)
	default:
		return "", false
	}
}

// firstVariant applies the first-variant policy: no plural rules, no
// selector evaluation, just the first candidate of the first record.
func firstVariant(variants []any) (string, bool) {
	if len(variants) == 0 {
		return "", false
	}
	record, ok := variants[0].(*localedata.Object)
	if !ok {
		return "", false
	}
	raw, ok := record.Get("match")
	if !ok {
		return "", false
	}
	match, ok := raw.(*localedata.Object)
	if !ok || match.Len() == 0 {
		return "", false
	}
	candidate, _ := match.Get(match.Keys()[0])
	s, ok := candidate.(string)
	if !ok {
		return "", false
	}
	return s + VariantMarker, true
}

// IsDerived reports whether value came from a variant list.
func IsDerived(value string) bool {
	return strings.HasSuffix(value, VariantMarker)
}
