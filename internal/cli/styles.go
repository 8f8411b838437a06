// Package cli renders detector output for the terminal using lipgloss.
package cli

import (
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// palette groups the colors used by every rendered view.
type palette struct {
	accent   lipgloss.Color
	safe     lipgloss.Color
	caution  lipgloss.Color
	danger   lipgloss.Color
	critical lipgloss.Color
	note     lipgloss.Color
	muted    lipgloss.Color
	border   lipgloss.Color
}

var colors = palette{
	accent:   lipgloss.Color("#5B8DEF"),
	safe:     lipgloss.Color("#4ECDC4"),
	caution:  lipgloss.Color("#FFE66D"),
	danger:   lipgloss.Color("#FF9F43"),
	critical: lipgloss.Color("#FF6B6B"),
	note:     lipgloss.Color("#95E1D3"),
	muted:    lipgloss.Color("#666666"),
	border:   lipgloss.Color("#333333"),
}

var (
	boldStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colors.muted)
	safeStyle     = lipgloss.NewStyle().Foreground(colors.safe)
	cautionStyle  = lipgloss.NewStyle().Foreground(colors.caution)
	dangerStyle   = lipgloss.NewStyle().Foreground(colors.danger).Bold(true)
	criticalStyle = lipgloss.NewStyle().Foreground(colors.critical)
	noteStyle     = lipgloss.NewStyle().Foreground(colors.note)

	boxTitleStyle = lipgloss.NewStyle().Foreground(colors.accent).Bold(true)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.border).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colors.border)
	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

const (
	iconSafe    = "✓"
	iconWarning = "⚠️"
	iconNote    = "ℹ️"
	iconShield  = "🛡️"
	iconModel   = "🤖"
	iconChart   = "📊"
	iconSearch  = "🔍"
	iconDone    = "✅"
)

var riskStyles = map[model.RiskLevel]lipgloss.Style{
	model.RiskCritical: criticalStyle.Bold(true),
	model.RiskHigh:     dangerStyle,
	model.RiskMedium:   cautionStyle,
	model.RiskLow:      safeStyle,
}

var severityStyles = map[model.Severity]lipgloss.Style{
	model.SeverityCritical: criticalStyle,
	model.SeverityHigh:     dangerStyle,
	model.SeverityMedium:   cautionStyle,
	model.SeverityLow:      mutedStyle,
}

func riskStyle(level model.RiskLevel) lipgloss.Style {
	if s, ok := riskStyles[level]; ok {
		return s
	}
	return safeStyle
}

func severityStyle(sev model.Severity) lipgloss.Style {
	if s, ok := severityStyles[sev]; ok {
		return s
	}
	return mutedStyle
}

func warnLine(msg string) string {
	return cautionStyle.Render(iconWarning + " " + msg)
}

func noteLine(msg string) string {
	return noteStyle.Render(iconNote + " " + msg)
}

// box frames content under a bold title.
func box(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitleStyle.Render(title), content))
}
