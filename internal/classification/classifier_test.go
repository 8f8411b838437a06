package classification

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitted(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, c.Fit(context.Background(), testutil.SampleExamples()))
	return c
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Options) {}},
		{name: "zero features", mutate: func(o *Options) { o.MaxFeatures = 0 }, wantErr: true},
		{name: "ngram too large", mutate: func(o *Options) { o.NGramMax = 4 }, wantErr: true},
		{name: "ngram zero", mutate: func(o *Options) { o.NGramMax = 0 }, wantErr: true},
		{name: "zero alpha", mutate: func(o *Options) { o.Alpha = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClassifier_Fit_RequiresBothLabels(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)

	err = c.Fit(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrData)

	err = c.Fit(context.Background(), []model.LabeledExample{
		{Text: "you won a prize", Label: model.LabelScam},
	})
	assert.ErrorIs(t, err, common.ErrData)
	assert.False(t, c.IsLoaded())
}

func TestClassifier_Fit_Cancelled(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Fit(ctx, testutil.SampleExamples()), context.Canceled)
}

func TestClassifier_NotFitted(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)

	_, _, err = c.PredictLabel("hello")
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = c.PredictProba("hello")
	assert.ErrorIs(t, err, ErrNotFitted)

	var nilClassifier *Classifier
	assert.False(t, nilClassifier.IsLoaded())
}

func TestClassifier_RoundTripAgreement(t *testing.T) {
	c := fitted(t)
	examples := testutil.SampleExamples()

	agree := 0
	for _, ex := range examples {
		label, _, err := c.Predict(ex.Text)
		require.NoError(t, err)
		if label == ex.Label {
			agree++
		}
	}
	// A sanity check, not a guarantee of perfect recall.
	assert.GreaterOrEqual(t, float64(agree)/float64(len(examples)), 0.8)
}

func TestClassifier_PredictLabel(t *testing.T) {
	c := fitted(t)

	label, confidence, err := c.PredictLabel("You won a lottery! Click here to claim your prize")
	require.NoError(t, err)
	assert.Equal(t, string(model.LabelScam), label)
	assert.GreaterOrEqual(t, confidence, 50.0)
	assert.LessOrEqual(t, confidence, 100.0)
	assert.InDelta(t, confidence, math.Round(confidence*10)/10, 1e-9)

	label, _, err = c.PredictLabel("Can we reschedule our lunch meeting tomorrow?")
	require.NoError(t, err)
	assert.Equal(t, string(model.LabelNotScam), label)
}

func TestClassifier_PredictProbaSumsToOne(t *testing.T) {
	c := fitted(t)

	for _, text := range []string{"free prize", "lunch meeting", "zzz qqq", ""} {
		probs, err := c.PredictProba(text)
		require.NoError(t, err)
		require.Len(t, probs, 2)
		assert.InDelta(t, 1.0, probs[model.LabelScam]+probs[model.LabelNotScam], 1e-9)
	}
}

func TestClassifier_ConcurrentPredict(t *testing.T) {
	c := fitted(t)
	want, _, err := c.Predict("Share the OTP to verify your account")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _, err := c.Predict("Share the OTP to verify your account")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c := fitted(t)

	snap, err := c.Snapshot()
	require.NoError(t, err)
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, c.VocabularySize(), restored.VocabularySize())
	assert.Equal(t, c.Documents(), restored.Documents())
	for _, ex := range testutil.SampleExamples() {
		wantLabel, wantConf, err := c.PredictLabel(ex.Text)
		require.NoError(t, err)
		gotLabel, gotConf, err := restored.PredictLabel(ex.Text)
		require.NoError(t, err)
		assert.Equal(t, wantLabel, gotLabel)
		assert.InDelta(t, wantConf, gotConf, 1e-9)
	}
}

func TestFromSnapshot_Corrupt(t *testing.T) {
	c := fitted(t)
	snap, err := c.Snapshot()
	require.NoError(t, err)

	bad := snap
	bad.IDF = bad.IDF[:1]
	_, err = FromSnapshot(bad)
	assert.ErrorIs(t, err, common.ErrCorruptArtifact)

	bad = snap
	bad.Classes = bad.Classes[:1]
	_, err = FromSnapshot(bad)
	assert.ErrorIs(t, err, common.ErrCorruptArtifact)

	_, err = (&Classifier{}).Snapshot()
	assert.ErrorIs(t, err, ErrNotFitted)
}
