// Package service defines the interfaces shared between scamguard components.
package service

import (
	"context"

	"github.com/Veraticus/scamguard/internal/model"
)

// Predictor labels a message and reports the confidence as a percentage.
type Predictor interface {
	PredictLabel(text string) (label string, confidence float64, err error)
	IsLoaded() bool
}

// ModelLoader restores a predictor from a persisted artifact.
type ModelLoader interface {
	LoadPredictor(ctx context.Context, path string) (Predictor, error)
}

// Analyzer produces scam analysis reports.
type Analyzer interface {
	Analyze(ctx context.Context, message string) (*model.AnalysisReport, error)
	Statistics() model.Statistics
}

// ReloadableAnalyzer is an Analyzer whose model can be re-read from disk.
type ReloadableAnalyzer interface {
	Analyzer
	ReloadModel(ctx context.Context) error
}
