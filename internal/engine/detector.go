// Package engine implements the message analysis pipeline: pattern matching,
// risk scoring, recommendations and optional classifier inference.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/pattern"
	"github.com/Veraticus/scamguard/internal/risk"
	"github.com/Veraticus/scamguard/internal/service"
	"github.com/google/uuid"
)

// Report summaries by risk level.
const (
	SummaryDanger     = "⚠️ This message shows strong scam indicators! Do not engage."
	SummaryCaution    = "⚠️ This message has some suspicious elements. Be very careful."
	SummaryLegitimate = "✅ This message appears to be legitimate."
)

var linkHint = regexp.MustCompile(`http|bit\.ly|tinyurl`)

// Detector analyzes messages. It is safe for concurrent use.
type Detector struct {
	predictor service.Predictor
	loader    service.ModelLoader
	matcher   pattern.IndicatorFinder
	now       func() time.Time
	modelPath string
	mu        sync.RWMutex
}

// New creates a detector over catalog. A nil catalog uses the built-in rules;
// a nil predictor gives pattern-only analysis.
func New(catalog *pattern.Catalog, predictor service.Predictor) *Detector {
	return &Detector{
		matcher:   pattern.NewMatcher(catalog),
		predictor: predictor,
		now:       time.Now,
	}
}

// Load creates a detector and tries to load the classifier artifact at path.
// A load failure is logged and the detector runs without a classifier.
func Load(ctx context.Context, loader service.ModelLoader, path string, catalog *pattern.Catalog) *Detector {
	d := New(catalog, nil)
	d.loader = loader
	d.modelPath = path

	if err := d.ReloadModel(ctx); err != nil {
		if errors.Is(err, common.ErrModelUnavailable) {
			slog.Warn("Classifier model not found, using pattern analysis only", "path", path)
		} else {
			slog.Warn("Failed to load classifier model, using pattern analysis only", "path", path, "error", err)
		}
	}
	return d
}

// ReloadModel re-reads the classifier artifact and swaps it in. On failure the
// current classifier, if any, is kept.
func (d *Detector) ReloadModel(ctx context.Context) error {
	if d.loader == nil || d.modelPath == "" {
		return fmt.Errorf("%w: no model location configured", common.ErrModelUnavailable)
	}

	p, err := d.loader.LoadPredictor(ctx, d.modelPath)
	if err != nil {
		return err
	}
	if p == nil || !p.IsLoaded() {
		return fmt.Errorf("%w: %s", common.ErrModelUnavailable, d.modelPath)
	}

	d.mu.Lock()
	d.predictor = p
	d.mu.Unlock()

	common.LogInfo("Loaded classifier model", common.Fields{"path": d.modelPath})
	return nil
}

// ModelLoaded reports whether a classifier is available.
func (d *Detector) ModelLoaded() bool {
	p := d.currentPredictor()
	return p != nil && p.IsLoaded()
}

func (d *Detector) currentPredictor() service.Predictor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.predictor
}

// Analyze produces the report for message. An empty or non-UTF-8 message
// yields a *common.InvalidInputError.
func (d *Detector) Analyze(ctx context.Context, message string) (*model.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if message == "" {
		return nil, &common.InvalidInputError{Reason: "message is empty"}
	}
	if !utf8.ValidString(message) {
		return nil, &common.InvalidInputError{Reason: "message is not valid UTF-8 text"}
	}

	report := &model.AnalysisReport{
		ID:              uuid.NewString(),
		OriginalMessage: message,
		Timestamp:       d.now(),
		MessageLength:   utf8.RuneCountInString(message),
		HasLinkHint:     linkHint.MatchString(strings.ToLower(message)),
	}

	if p := d.currentPredictor(); p != nil && p.IsLoaded() {
		label, confidence, err := p.PredictLabel(message)
		if err != nil {
			slog.Warn("Classifier prediction failed", "id", report.ID, "error", err)
		} else {
			report.ClassifierLabel = &label
			report.ClassifierConfidence = confidence
		}
	}

	report.Findings = d.matcher.FindIndicators(message)
	report.RiskAssessment = risk.Score(report.Findings)
	report.Recommendations = risk.Recommend(report.Level, report.Findings)
	report.Summary = summaryFor(report.Level)

	slog.Debug("Analyzed message",
		"id", report.ID,
		"findings", len(report.Findings),
		"risk_level", report.Level,
		"risk_score", report.Score)
	return report, nil
}

// Statistics describes the detector configuration.
func (d *Detector) Statistics() model.Statistics {
	catalog := d.matcher.Catalog()
	return model.Statistics{
		PatternCount:   catalog.Len(),
		Categories:     catalog.Categories(),
		SeverityLevels: model.Severities(),
		ModelLoaded:    d.ModelLoaded(),
	}
}

func summaryFor(level model.RiskLevel) string {
	switch level {
	case model.RiskCritical, model.RiskHigh:
		return SummaryDanger
	case model.RiskMedium:
		return SummaryCaution
	default:
		return SummaryLegitimate
	}
}
