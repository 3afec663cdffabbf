// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diagdash/internal/config"
	"github.com/zjrosen/diagdash/internal/diag"
)

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Secondary info
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusedColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"} // Focused pane border

	// Header and footer
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	HelpStyle  = lipgloss.NewStyle().Foreground(TextMutedColor)

	// Tabs
	TabStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 2)
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimaryColor).
			Underline(true).
			Padding(0, 2)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)
	SidebarFocusedStyle = SidebarStyle.
				BorderForeground(BorderFocusedColor)
	SelectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})

	// Content pane
	ContentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)
)

// Theme holds status styles derived from configuration.
type Theme struct {
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme builds status styles from config, falling back to defaults
// for any color left empty.
func NewTheme(cfg config.ThemeConfig) Theme {
	defaults := config.Defaults().Theme
	pick := func(value, fallback string) lipgloss.Color {
		if value == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(value)
	}
	return Theme{
		Pass:    lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.PassColor, defaults.PassColor)),
		Fail:    lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.FailColor, defaults.FailColor)),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.WarningColor, defaults.WarningColor)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.ErrorColor, defaults.ErrorColor)),
	}
}

// StatusStyle returns the style for a result status.
func (t Theme) StatusStyle(status diag.Status) lipgloss.Style {
	switch status {
	case diag.StatusPass:
		return t.Pass
	case diag.StatusFail:
		return t.Fail
	case diag.StatusWarning:
		return t.Warning
	default:
		return t.Error
	}
}

// StatusLabel renders the short status label with its themed color.
func (t Theme) StatusLabel(status diag.Status) string {
	return t.StatusStyle(status).Render(status.Label())
}
