package tui

import (
	"context"
	"time"

	"github.com/Veraticus/scamguard/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

func analyzeCmd(ctx context.Context, analyzer service.Analyzer, message string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		actx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		report, err := analyzer.Analyze(actx, message)
		return analysisDoneMsg{report: report, err: err, message: message}
	}
}

func loadStatsCmd(analyzer service.Analyzer) tea.Cmd {
	return func() tea.Msg {
		return statsLoadedMsg{stats: analyzer.Statistics()}
	}
}
