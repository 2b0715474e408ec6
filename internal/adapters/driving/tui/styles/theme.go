// Package styles holds the colours and lipgloss styles shared by the
// watch dashboard and the CLI's styled output.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	// Primary colours the dashboard title.
	Primary lipgloss.Color

	// Secondary colours subtitles and stat values.
	Secondary lipgloss.Color

	// Foreground is plain text.
	Foreground lipgloss.Color

	// Muted is timestamps, labels and hints.
	Muted lipgloss.Color

	// Success marks saves and a healthy watch.
	Success lipgloss.Color

	// Warning marks removed documents.
	Warning lipgloss.Color

	// Error marks failed updates.
	Error lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// Label and Value render a stat such as "nodes 12".
	Label lipgloss.Style
	Value lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles derives styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal:  lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),

		Label: lipgloss.NewStyle().Foreground(theme.Muted),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Stat renders a "label value" pair.
func (s *Styles) Stat(label string, value any) string {
	return s.Label.Render(label+" ") + s.Value.Render(fmt.Sprint(value))
}

// Theme returns the palette the styles were derived from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
