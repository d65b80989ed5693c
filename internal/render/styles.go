package render

import "github.com/charmbracelet/lipgloss"

var (
	// KeyStyle is used for the issue key.
	KeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")) // Purple

	// SummaryStyle is used for the issue summary.
	SummaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	// FlaggedStyle marks flagged issues.
	FlaggedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// LabelStyle is used for field names.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // Light blue

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// SectionStyle is used for section headings.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")). // Light purple
			MarginTop(1)

	// MutedStyle is used for the URL and empty values.
	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray
)
