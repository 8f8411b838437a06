package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/scamguard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	theme := m.config.Theme

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.Title.Render("🛡️  ScamGuard"),
		theme.Subtitle.Render(m.renderStatsLine()),
	)

	input := theme.Input.Width(max(m.width-2, 10)).Render(m.input.View())

	var status string
	switch {
	case m.state == StateAnalyzing:
		status = m.spinner.View() + " " + theme.StatusPending.Render("Analyzing...")
	case m.lastError != nil:
		status = theme.StatusError.Render("✗ " + m.lastError.Error())
	default:
		status = theme.StatusPending.Render(fmt.Sprintf("%d message(s) checked", len(m.history)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		input,
		status,
		m.viewport.View(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderStatsLine() string {
	mode := "pattern rules only"
	if m.stats.ModelLoaded {
		mode = "classifier loaded"
	}
	return fmt.Sprintf("%d patterns · %d categories · %s",
		m.stats.PatternCount, len(m.stats.Categories), mode)
}

func (m Model) renderResults() string {
	if m.current == nil {
		return m.config.Theme.Italic.Render("Results will appear here.")
	}

	var b strings.Builder
	b.WriteString(m.renderReport(m.current))

	if len(m.history) > 1 {
		b.WriteString("\n\n")
		b.WriteString(m.config.Theme.Bold.Render("Recent checks"))
		b.WriteString("\n")
		for _, r := range m.history[1:] {
			b.WriteString(m.renderHistoryLine(r))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderReport(r *model.AnalysisReport) string {
	theme := m.config.Theme
	var b strings.Builder

	risk := theme.Risk(r.Level)
	b.WriteString(risk.Render(r.Summary))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Risk: %s  Score: %.1f%%", risk.Render(strings.ToUpper(string(r.Level))), r.Score))
	if r.ClassifierLabel != nil {
		b.WriteString(fmt.Sprintf("  Classifier: %s (%.1f%%)", *r.ClassifierLabel, r.ClassifierConfidence))
	}
	if r.HasLinkHint {
		b.WriteString("  " + theme.StatusWarning.Render("contains link"))
	}
	b.WriteString("\n")

	if len(r.Findings) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Bold.Render("Indicators"))
		b.WriteString("\n")
		for _, f := range r.Findings {
			sev := theme.Severity(f.Severity).Render(fmt.Sprintf("[%s]", f.Severity))
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", sev, f.Type, f.Explanation))
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Bold.Render("Recommendations"))
		b.WriteString("\n")
		for _, rec := range r.Recommendations {
			b.WriteString("  • " + rec + "\n")
		}
	}
	return theme.RoundedBox.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHistoryLine(r *model.AnalysisReport) string {
	level := m.config.Theme.Risk(r.Level).Render(fmt.Sprintf("%-8s", strings.ToUpper(string(r.Level))))
	return fmt.Sprintf("  %s %s", level, truncate(r.OriginalMessage, max(m.width-16, 20)))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
