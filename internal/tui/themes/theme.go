// Package themes defines color themes for the interactive checker.
package themes

import (
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	RoundedBox    lipgloss.Style
	Input         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusDanger  lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Danger        lipgloss.Color
	Error         lipgloss.Color
}

// Risk returns the style for a risk level.
func (t Theme) Risk(level model.RiskLevel) lipgloss.Style {
	switch level {
	case model.RiskCritical:
		return t.StatusError
	case model.RiskHigh:
		return t.StatusDanger
	case model.RiskMedium:
		return t.StatusWarning
	default:
		return t.StatusSuccess
	}
}

// Severity returns the style for a finding severity.
func (t Theme) Severity(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeverityCritical:
		return t.StatusError
	case model.SeverityHigh:
		return t.StatusDanger
	case model.SeverityMedium:
		return t.StatusWarning
	default:
		return t.StatusPending
	}
}

func build(primary, fg, subtle, muted, border, success, warning, danger, errColor, info lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Muted:   muted,
		Border:  border,
		Success: success,
		Warning: warning,
		Danger:  danger,
		Error:   errColor,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Italic: lipgloss.NewStyle().
			Italic(true).
			Foreground(fg),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(primary).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusDanger: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#3b82f6"), // primary
	lipgloss.Color("#fafafa"), // foreground
	lipgloss.Color("#a3a3a3"), // subtitle
	lipgloss.Color("#737373"), // muted
	lipgloss.Color("#404040"), // border
	lipgloss.Color("#10b981"), // success
	lipgloss.Color("#f59e0b"), // warning
	lipgloss.Color("#f97316"), // danger
	lipgloss.Color("#ef4444"), // error
	lipgloss.Color("#3b82f6"), // info
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#a6adc8"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#fab387"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha", "mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
