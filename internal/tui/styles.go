package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for board elements
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B03A2E")).
			Padding(0, 1).
			Bold(true)

	TableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#145A32")).
			Padding(1, 2)

	OrosStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	CopasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	EspadasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6BA8FF")).
			Bold(true)

	BastosStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	FaceDownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFD700")).
			Bold(true)

	ActiveSeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	AnnouncementStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color("#FFEAA7")).
				Padding(0, 1).
				Bold(true)

	MessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ResultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(1, 3).
			Bold(true)
)
