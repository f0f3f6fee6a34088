package theme

import "github.com/charmbracelet/lipgloss"

// Gruvbox theme - retro groove palette (dark)
// https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name: "gruvbox",

	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Border:     lipgloss.Color("#504945"),

	Primary:   lipgloss.Color("#83A598"),
	Secondary: lipgloss.Color("#8EC07C"),
	Success:   lipgloss.Color("#B8BB26"),
	Warning:   lipgloss.Color("#FABD2F"),
	Error:     lipgloss.Color("#FB4934"),

	// Report colors
	Hours:   lipgloss.Color("#B8BB26"),
	Money:   lipgloss.Color("#FABD2F"),
	Running: lipgloss.Color("#FE8019"),
	Time:    lipgloss.Color("#83A598"),
}
