// SPDX-License-Identifier: MPL-2.0

package render

import (
	"strconv"
	"strings"

	"github.com/keylens/keylens/internal/resolve"
)

// Hint is the plain inline annotation for call: the quoted value, the quoted
// value plus the locale it came from, or the missing marker.
func Hint(call resolve.ResolvedCall, labels Labels) string {
	switch call.State {
	case resolve.Resolved:
		return strconv.Quote(call.Text())
	case resolve.ResolvedElsewhere:
		return strconv.Quote(call.Text()) + " " + labels.FoundIn(call.FoundIn)
	default:
		return labels.Missing()
	}
}

// StyledHint is Hint colored by state.
func StyledHint(call resolve.ResolvedCall, labels Labels) string {
	text := Hint(call, labels)
	switch call.State {
	case resolve.Resolved:
		return resolvedStyle.Render(text)
	case resolve.ResolvedElsewhere:
		return elsewhereStyle.Render(text)
	default:
		return missingStyle.Render(text)
	}
}

// Position converts a byte offset in text to a 1-based line and column.
// Columns count runes.
func Position(text string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(text))
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	col = len([]rune(before[lineStart:])) + 1
	return line, col
}
