package tui

import "github.com/charmbracelet/lipgloss"

// Palette colors, matching the browser stylesheet.
const (
	darkBg      = lipgloss.Color("#1e1e1e")
	darkFg      = lipgloss.Color("#d4d4d4")
	darkMuted   = lipgloss.Color("#808080")
	lightBg     = lipgloss.Color("#ffffff")
	lightFg     = lipgloss.Color("#1f2328")
	lightMuted  = lipgloss.Color("#6e7781")
	accent      = lipgloss.Color("#3b82f6")
	successDark = lipgloss.Color("#4ade80")
	successLt   = lipgloss.Color("#15803d")
	errorDark   = lipgloss.Color("#f87171")
	errorLt     = lipgloss.Color("#b91c1c")
)

// Styles holds the lipgloss styles for one theme.
type Styles struct {
	App        lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Filename   lipgloss.Style
	Pane       lipgloss.Style
	PaneTitle  lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Notice     lipgloss.Style
	Help       lipgloss.Style
	Spinner    lipgloss.Style
	ThemeLabel string
}

// NewStyles builds the styles for the dark or light theme.
func NewStyles(dark bool) Styles {
	bg, fg, muted := lightBg, lightFg, lightMuted
	success, failure := successLt, errorLt
	label := "Dark Mode"
	if dark {
		bg, fg, muted = darkBg, darkFg, darkMuted
		success, failure = successDark, errorDark
		label = "Light Mode"
	}

	base := lipgloss.NewStyle().Foreground(fg).Background(bg)

	return Styles{
		App:       base,
		Tab:       base.Padding(0, 1).Foreground(muted),
		ActiveTab: base.Padding(0, 1).Bold(true).Foreground(bg).Background(accent),
		Filename:  base.Bold(true),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		PaneTitle: base.Foreground(muted),
		Success:   lipgloss.NewStyle().Foreground(success),
		Error:     lipgloss.NewStyle().Foreground(failure),
		Notice: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Help:       lipgloss.NewStyle().Foreground(muted),
		Spinner:    lipgloss.NewStyle().Foreground(accent),
		ThemeLabel: label,
	}
}
