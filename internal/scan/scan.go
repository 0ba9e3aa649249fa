// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// DefaultNamespace is the identifier message functions hang off when no
// namespace is configured.
const DefaultNamespace = "m"

const (
	// Flat is a key referenced with member access: m.key().
	Flat Shape = iota
	// Nested is a quoted, possibly dotted key referenced with bracket access: m["a.b"]().
	Nested
)

type (
	// Shape tells how a call referenced its key.
	Shape int

	// Call is one located invocation. Start and End are byte offsets into the
	// scanned text and go stale as soon as that text changes.
	Call struct {
		Key   string
		Shape Shape
		// Args is the raw text between the call parentheses.
		Args  string
		Start int
		End   int
	}

	// Scanner matches calls for a single namespace. It is safe for concurrent use.
	Scanner struct {
		namespace string
		flat      *regexp.Regexp
		nested    *regexp.Regexp
	}
)

var defaultScanner = New(DefaultNamespace)

// String returns the lower-case shape name.
func (s Shape) String() string {
	switch s {
	case Flat:
		return "flat"
	case Nested:
		return "nested"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Len returns the length of the call span in bytes.
func (c Call) Len() int {
	return c.End - c.Start
}

// New builds a Scanner for namespace. An empty namespace selects DefaultNamespace.
func New(namespace string) *Scanner {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	ns := regexp.QuoteMeta(namespace)
	const args = `\(([^()]*)\)`

	return &Scanner{
		namespace: namespace,
		flat:      regexp.MustCompile(ns + `\.([A-Za-z_$][A-Za-z0-9_$]*)` + args),
		// Go regexp has no back-references, so each quote style is its own
		// alternative; that is what keeps m["a.b'] from matching.
		nested: regexp.MustCompile(ns + `\[(?:"([^"\n]+)"|'([^'\n]+)'|` + "`([^`\\n]+)`" + `)\]` + args),
	}
}

// Namespace returns the namespace this scanner matches.
func (s *Scanner) Namespace() string {
	return s.namespace
}

// Scan returns every call in text ordered by start offset. It never fails;
// text without calls yields an empty slice.
func (s *Scanner) Scan(text string) []Call {
	calls := make([]Call, 0)

	for _, m := range s.flat.FindAllStringSubmatchIndex(text, -1) {
		if continuesIdentifier(text, m[0]) {
			continue
		}
		calls = append(calls, Call{
			Key:   text[m[2]:m[3]],
			Shape: Flat,
			Args:  text[m[4]:m[5]],
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range s.nested.FindAllStringSubmatchIndex(text, -1) {
		if continuesIdentifier(text, m[0]) {
			continue
		}
		// Groups 1-3 are the three quote styles; exactly one participates.
		var key string
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				key = text[m[2*g]:m[2*g+1]]
				break
			}
		}
		calls = append(calls, Call{
			Key:   key,
			Shape: Nested,
			Args:  text[m[8]:m[9]],
			Start: m[0],
			End:   m[1],
		})
	}

	// Stable so that flat matches stay ahead of nested ones on equal offsets.
	slices.SortStableFunc(calls, func(a, b Call) int {
		return a.Start - b.Start
	})
	return calls
}

// continuesIdentifier reports whether the byte before start belongs to an
// identifier, so that item.label() is not read as m.label(). A plain \b does
// not work for namespaces starting with $.
func continuesIdentifier(text string, start int) bool {
	if start == 0 {
		return false
	}
	c := text[start-1]
	return c == '_' || c == '$' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Scan scans text with the default namespace.
func Scan(text string) []Call {
	return defaultScanner.Scan(text)
}
