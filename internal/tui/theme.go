package tui

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	primary = lipgloss.Color("#14B8A6") // Teal
	accent  = lipgloss.Color("#F97316") // Orange
	success = lipgloss.Color("#22C55E") // Green
	failure = lipgloss.Color("#F43F5E") // Rose
	text    = lipgloss.Color("#F8FAFC") // White
	textDim = lipgloss.Color("#94A3B8") // Slate
	border  = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	hintStyle = lipgloss.NewStyle().
			Foreground(textDim)

	borderStyle = lipgloss.NewStyle().
			Foreground(border)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2)

	// Per-character judgment styles.
	correctStyle   = lipgloss.NewStyle().Foreground(success)
	incorrectStyle = lipgloss.NewStyle().Foreground(failure).Bold(true)
	currentStyle   = lipgloss.NewStyle().Foreground(text).Underline(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(textDim)

	progressFilled = lipgloss.NewStyle().Foreground(primary)
	progressEmpty  = lipgloss.NewStyle().Foreground(border)
)
