package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/scamguard/internal/classification"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/risk"
	"github.com/Veraticus/scamguard/internal/service"
	"github.com/Veraticus/scamguard/internal/storage"
	"github.com/Veraticus/scamguard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	predictor service.Predictor
	err       error
	calls     int
}

func (l *stubLoader) LoadPredictor(_ context.Context, _ string) (service.Predictor, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.predictor, nil
}

func ruleNames(findings []model.Finding) []string {
	names := make([]string, 0, len(findings))
	for _, f := range findings {
		names = append(names, f.Rule)
	}
	return names
}

func TestDetector_LotteryMessage(t *testing.T) {
	d := New(nil, nil)

	report, err := d.Analyze(context.Background(), "Congratulations! You won a lottery. Click here to claim")
	require.NoError(t, err)

	names := ruleNames(report.Findings)
	assert.Contains(t, names, "lottery_winning")
	assert.Contains(t, names, "suspicious_link")
	assert.Contains(t, []model.RiskLevel{model.RiskHigh, model.RiskCritical}, report.Level)
	assert.Contains(t, report.Recommendations, risk.DoNotClickAdvice)
	assert.Equal(t, SummaryDanger, report.Summary)
}

func TestDetector_LegitimateMessage(t *testing.T) {
	d := New(nil, nil)

	report, err := d.Analyze(context.Background(), "Hi, are we meeting for lunch tomorrow at 3 PM?")
	require.NoError(t, err)

	assert.Empty(t, report.Findings)
	assert.NotNil(t, report.Findings)
	assert.Equal(t, model.RiskLow, report.Level)
	assert.Equal(t, 0.0, report.Score)
	assert.Equal(t, SummaryLegitimate, report.Summary)
	assert.False(t, report.HasLinkHint)
	assert.Len(t, report.Recommendations, 2)
}

func TestDetector_InvalidInput(t *testing.T) {
	predictor := &testutil.StubPredictor{Loaded: true, Label: "scam", Confidence: 90}
	d := New(nil, predictor)

	tests := []struct {
		name    string
		message string
	}{
		{name: "empty", message: ""},
		{name: "invalid utf-8", message: "hello \xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := d.Analyze(context.Background(), tt.message)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, common.ErrInvalidInput)

			var inputErr *common.InvalidInputError
			assert.True(t, errors.As(err, &inputErr))
		})
	}
	assert.Empty(t, predictor.Calls())
}

func TestDetector_WhitespaceIsAnalyzed(t *testing.T) {
	report, err := New(nil, nil).Analyze(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, model.RiskLow, report.Level)
	assert.Equal(t, 3, report.MessageLength)
}

func TestDetector_MissingArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	d := Load(context.Background(), storage.NewArtifactStore(), path, nil)

	stats := d.Statistics()
	assert.False(t, stats.ModelLoaded)
	assert.Equal(t, 15, stats.PatternCount)

	report, err := d.Analyze(context.Background(), "Your KYC is pending, update now or your account will be blocked")
	require.NoError(t, err)
	assert.Nil(t, report.ClassifierLabel)
	assert.Zero(t, report.ClassifierConfidence)
	assert.NotEmpty(t, report.Findings)
	assert.NotEmpty(t, report.Recommendations)
	assert.NotEmpty(t, report.Summary)
	assert.NotEmpty(t, report.ID)
}

func TestDetector_WithPredictor(t *testing.T) {
	predictor := &testutil.StubPredictor{Loaded: true, Label: "scam", Confidence: 87.5}
	d := New(nil, predictor)

	report, err := d.Analyze(context.Background(), "Free gift, visit http://example.test")
	require.NoError(t, err)
	require.NotNil(t, report.ClassifierLabel)
	assert.Equal(t, "scam", *report.ClassifierLabel)
	assert.Equal(t, 87.5, report.ClassifierConfidence)
	assert.True(t, report.HasLinkHint)
	assert.Equal(t, []string{"Free gift, visit http://example.test"}, predictor.Calls())
	assert.True(t, d.Statistics().ModelLoaded)
}

func TestDetector_PredictionFailure(t *testing.T) {
	predictor := &testutil.StubPredictor{Loaded: true, Err: common.ErrPrediction}
	d := New(nil, predictor)

	report, err := d.Analyze(context.Background(), "Congratulations! You won a lottery. Click here to claim")
	require.NoError(t, err)
	assert.Nil(t, report.ClassifierLabel)
	assert.Zero(t, report.ClassifierConfidence)
	assert.Len(t, report.Findings, 2)
}

func TestDetector_UnloadedPredictorSkipped(t *testing.T) {
	predictor := &testutil.StubPredictor{Loaded: false, Label: "scam"}
	d := New(nil, predictor)

	report, err := d.Analyze(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Nil(t, report.ClassifierLabel)
	assert.Empty(t, predictor.Calls())
	assert.False(t, d.Statistics().ModelLoaded)
}

func TestDetector_MessageFields(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		length   int
		hasLinks bool
	}{
		{name: "short link", message: "see BIT.LY/abc", length: 14, hasLinks: true},
		{name: "tinyurl", message: "tinyurl.com/x", length: 13, hasLinks: true},
		{name: "multibyte", message: "₹10,00,000 जीता", length: 15, hasLinks: false},
	}

	d := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := d.Analyze(context.Background(), tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.length, report.MessageLength)
			assert.Equal(t, tt.hasLinks, report.HasLinkHint)
			assert.Equal(t, tt.message, report.OriginalMessage)
		})
	}
}

func TestDetector_Summaries(t *testing.T) {
	assert.Equal(t, SummaryDanger, summaryFor(model.RiskCritical))
	assert.Equal(t, SummaryDanger, summaryFor(model.RiskHigh))
	assert.Equal(t, SummaryCaution, summaryFor(model.RiskMedium))
	assert.Equal(t, SummaryLegitimate, summaryFor(model.RiskLow))
}

func TestDetector_Statistics(t *testing.T) {
	stats := New(nil, nil).Statistics()

	assert.Equal(t, 15, stats.PatternCount)
	assert.Equal(t, model.Severities(), stats.SeverityLevels)
	assert.IsIncreasing(t, stats.Categories)
	assert.Contains(t, stats.Categories, "financial")
	assert.False(t, stats.ModelLoaded)
}

func TestDetector_ReloadModel(t *testing.T) {
	first := &testutil.StubPredictor{Loaded: true, Label: "scam", Confidence: 70}
	loader := &stubLoader{predictor: first}

	d := Load(context.Background(), loader, "model.db", nil)
	require.True(t, d.ModelLoaded())

	// A failed reload keeps the current model.
	loader.err = errors.New("boom")
	assert.Error(t, d.ReloadModel(context.Background()))
	assert.True(t, d.ModelLoaded())

	second := &testutil.StubPredictor{Loaded: true, Label: "not_scam", Confidence: 99}
	loader.err = nil
	loader.predictor = second
	require.NoError(t, d.ReloadModel(context.Background()))

	report, err := d.Analyze(context.Background(), "hello friend")
	require.NoError(t, err)
	require.NotNil(t, report.ClassifierLabel)
	assert.Equal(t, "not_scam", *report.ClassifierLabel)
	assert.Empty(t, first.Calls())
	assert.Equal(t, 3, loader.calls)
}

func TestDetector_ReloadWithoutLoader(t *testing.T) {
	err := New(nil, nil).ReloadModel(context.Background())
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}

func TestDetector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, nil).Analyze(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetector_ConcurrentAnalyzeAndReload(t *testing.T) {
	loader := &stubLoader{predictor: &testutil.StubPredictor{Loaded: true, Label: "scam", Confidence: 80}}
	d := Load(context.Background(), loader, "model.db", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := d.Analyze(context.Background(), "URGENT: update KYC or account will be suspended")
			assert.NoError(t, err)
			if assert.NotNil(t, report) {
				assert.Len(t, report.Findings, 3)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = d.ReloadModel(context.Background())
	}()
	wg.Wait()
}

func TestDetector_WithTrainedArtifact(t *testing.T) {
	ctx := context.Background()
	store := storage.NewArtifactStore()
	path := filepath.Join(t.TempDir(), "model.db")

	clf, err := classification.New(classification.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, clf.Fit(ctx, testutil.SampleExamples()))
	require.NoError(t, store.Save(ctx, path, clf))

	d := Load(ctx, store, path, nil)
	require.True(t, d.Statistics().ModelLoaded)

	report, err := d.Analyze(ctx, "You won a lottery! Click here to claim your prize")
	require.NoError(t, err)
	require.NotNil(t, report.ClassifierLabel)
	assert.Equal(t, string(model.LabelScam), *report.ClassifierLabel)
	assert.GreaterOrEqual(t, report.ClassifierConfidence, 50.0)
}
