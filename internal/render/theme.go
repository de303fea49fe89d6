package render

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#8B5CF6")
	Accent    = lipgloss.Color("#F97316")
	Success   = lipgloss.Color("#22C55E")
	TextColor = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	stemStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	answerStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)
)
