package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin theme - Mocha flavour
// https://catppuccin.com/
var Catppuccin = Theme{
	Name: "catppuccin",

	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Border:     lipgloss.Color("#45475A"),

	Primary:   lipgloss.Color("#89B4FA"),
	Secondary: lipgloss.Color("#CBA6F7"),
	Success:   lipgloss.Color("#A6E3A1"),
	Warning:   lipgloss.Color("#F9E2AF"),
	Error:     lipgloss.Color("#F38BA8"),

	// Report colors
	Hours:   lipgloss.Color("#A6E3A1"),
	Money:   lipgloss.Color("#F9E2AF"),
	Running: lipgloss.Color("#FAB387"),
	Time:    lipgloss.Color("#74C7EC"),
}
