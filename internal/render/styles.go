// SPDX-License-Identifier: MPL-2.0

package render

import "github.com/charmbracelet/lipgloss"

// Palette shared by every rendering, tuned for dark terminal backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// MutedStyle is for offsets, counts and other secondary detail.
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	// ErrorStyle is for error headlines.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

	resolvedStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	elsewhereStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	missingStyle   = lipgloss.NewStyle().Foreground(ColorError).Italic(true)
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)
	activeStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
)
