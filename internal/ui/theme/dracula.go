package theme

import "github.com/charmbracelet/lipgloss"

// Dracula theme - dark theme with vivid accents
// https://draculatheme.com/
var Dracula = Theme{
	Name: "dracula",

	Foreground: lipgloss.Color("#F8F8F2"),
	Subtle:     lipgloss.Color("#6272A4"),
	Border:     lipgloss.Color("#6272A4"),

	Primary:   lipgloss.Color("#BD93F9"),
	Secondary: lipgloss.Color("#8BE9FD"),
	Success:   lipgloss.Color("#50FA7B"),
	Warning:   lipgloss.Color("#F1FA8C"),
	Error:     lipgloss.Color("#FF5555"),

	// Report colors
	Hours:   lipgloss.Color("#50FA7B"),
	Money:   lipgloss.Color("#F1FA8C"),
	Running: lipgloss.Color("#FFB86C"),
	Time:    lipgloss.Color("#8BE9FD"),
}
