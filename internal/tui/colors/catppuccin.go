package colors

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha color palette, the subset used by the console and TUI
var (
	Surface0 = lipgloss.Color("#313244") // Surface colors
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086") // Overlay colors
	Overlay1 = lipgloss.Color("#7f849c")
	Subtext0 = lipgloss.Color("#a6adc8")
	Text     = lipgloss.Color("#cdd6f4") // Main text

	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7") // Purple
)

// Roles of the palette in status output
var (
	Accent  = Mauve
	Success = Green
	Warning = Yellow
	Failure = Red
	Muted   = Overlay1
)
