// Package theme holds the colors and text styles shared by the quiz and
// chat screens.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary   = lipgloss.Color("#0EA5E9")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Body  = lipgloss.NewStyle().Foreground(Text)
	Hint  = lipgloss.NewStyle().Italic(true).Foreground(TextDim)

	// Student and Tutor label chat turns.
	Student = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Tutor   = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	Selected   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Unselected = lipgloss.NewStyle().Foreground(Text)

	// Correct, Incorrect and Skipped mark graded answers.
	Correct   = lipgloss.NewStyle().Bold(true).Foreground(Success)
	Incorrect = lipgloss.NewStyle().Bold(true).Foreground(Error)
	Skipped   = lipgloss.NewStyle().Foreground(TextDim)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)
