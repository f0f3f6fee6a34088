package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme used by reports and the status view
type Theme struct {
	Name string

	// Base colors
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Report colors
	Hours   lipgloss.Color
	Money   lipgloss.Color
	Running lipgloss.Color
	Time    lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Muted lipgloss.Style

	// Messages
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Table cells
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Total   lipgloss.Style
	Project lipgloss.Style
	Hours   lipgloss.Style
	Money   lipgloss.Style
	Time    lipgloss.Style
	Running lipgloss.Style
	Border  lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Help styles
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Padding(0, 1),

		Total: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),

		Project: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true).
			Padding(0, 1),

		Hours: lipgloss.NewStyle().
			Foreground(t.Hours).
			Padding(0, 1),

		Money: lipgloss.NewStyle().
			Foreground(t.Money),

		Time: lipgloss.NewStyle().
			Foreground(t.Time).
			Padding(0, 1),

		Running: lipgloss.NewStyle().
			Foreground(t.Running).
			Italic(true).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			Foreground(t.Border),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
