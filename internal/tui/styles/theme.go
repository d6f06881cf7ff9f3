package styles

import (
	"github.com/allbin/serialprobe/internal/tui/colors"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Ports whose description matches a discovery pattern
	MatchStyle = lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true)

	// Ports the current user cannot open
	InaccessibleStyle = lipgloss.NewStyle().
				Foreground(colors.Overlay0)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	// Info styles
	InfoStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)
)

// TableStyles returns the bubbles table styling shared by the port views
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colors.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(colors.Text)
	s.Selected = s.Selected.
		Foreground(colors.Text).
		Background(colors.Surface1).
		Bold(false)
	return s
}
