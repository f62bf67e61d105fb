// Package output renders insights as styled terminal text for insightsctl.
package output

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorSuccess = lipgloss.Color("#66bb6a")
	ColorError   = lipgloss.Color("#ef5350")
	ColorWarning = lipgloss.Color("#fff59d")
	ColorMuted   = lipgloss.Color("#888888")
)

// Styles shared by every command.
var (
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleLabel   = lipgloss.NewStyle().Width(24)
	StyleValue   = lipgloss.NewStyle().Bold(true)
)

var noColor bool

// SetNoColor swaps every style for an unstyled one when disabled is true.
func SetNoColor(disabled bool) {
	noColor = disabled
	if !disabled {
		return
	}
	plain := lipgloss.NewStyle()
	StyleHeader = plain
	StyleSuccess = plain
	StyleError = plain
	StyleWarning = plain
	StyleMuted = plain
	StyleLabel = plain.Width(24)
	StyleValue = plain
}

// IsNoColor reports whether styling is disabled.
func IsNoColor() bool {
	return noColor
}
