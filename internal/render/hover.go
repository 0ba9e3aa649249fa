// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/resolve"
)

// HoverMarkdown renders key's value in every locale as a markdown table. The
// active locale's row is emphasized.
func HoverMarkdown(key, active string, values []resolve.LocaleValue, labels Labels) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", labels.T(messages.HoverTitle, map[string]any{"Key": "`" + key + "`"}))
	fmt.Fprintf(&b, "| %s | %s |\n| --- | --- |\n",
		labels.T(messages.HoverLocale, nil), labels.T(messages.HoverValue, nil))

	for _, v := range values {
		locale := v.Locale
		if locale == active {
			locale = "**" + locale + "**"
		}
		value := "_" + labels.T(messages.HoverAbsent, nil) + "_"
		if v.Found {
			value = escapeCell(v.Value)
		}
		fmt.Fprintf(&b, "| %s | %s |\n", locale, value)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
