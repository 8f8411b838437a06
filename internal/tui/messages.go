package tui

import "github.com/Veraticus/scamguard/internal/model"

type analysisDoneMsg struct {
	report  *model.AnalysisReport
	err     error
	message string
}

type statsLoadedMsg struct {
	stats model.Statistics
}
