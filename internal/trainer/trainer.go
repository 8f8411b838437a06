// Package trainer fits the message classifier from a labeled dataset and
// persists it as an artifact.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/scamguard/internal/classification"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/dataset"
	"github.com/Veraticus/scamguard/internal/model"
)

// Stage names a step of a training run.
type Stage string

// Training stages, in the order Run executes them.
const (
	StageLoad     Stage = "load"
	StageEvaluate Stage = "evaluate"
	StageFit      Stage = "fit"
	StageSave     Stage = "save"
	StageProbe    Stage = "probe"
)

// ProgressFunc is called when a stage starts. step counts from 1.
type ProgressFunc func(stage Stage, step, total int)

// ArtifactSaver persists a fitted classifier.
type ArtifactSaver interface {
	Save(ctx context.Context, path string, clf *classification.Classifier) error
}

// ProbeMessages are scored after every run as a quick sanity check.
var ProbeMessages = []string{
	"You won a lottery! Click here to claim your prize",
	"Meeting scheduled for tomorrow at 3 PM",
	"URGENT: Your KYC needs update, click link now",
	"Thanks for sending the project files",
	"Free iPhone giveaway! Just pay shipping",
	"Can we reschedule our lunch meeting?",
}

// Options configures a training run.
type Options struct {
	Classifier classification.Options
	TestSize   float64
	Seed       int64
	Evaluate   bool
}

// DefaultOptions returns the standard training configuration.
func DefaultOptions() Options {
	return Options{
		Classifier: classification.DefaultOptions(),
		TestSize:   0.2,
		Seed:       42,
		Evaluate:   true,
	}
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	if err := o.Classifier.Validate(); err != nil {
		return err
	}
	if o.TestSize <= 0 || o.TestSize >= 1 {
		return fmt.Errorf("%w: test size must be between 0 and 1, got %g", common.ErrInvalidConfig, o.TestSize)
	}
	return nil
}

// Prediction is the classifier output for one probe message.
type Prediction struct {
	Message    string
	Label      string
	Confidence float64
}

// Result summarizes a training run.
type Result struct {
	Evaluation   *model.Evaluation
	ArtifactPath string
	Probes       []Prediction
	Examples     int
	ScamCount    int
	NotScamCount int
	Duration     time.Duration
}

// Trainer fits and saves classifiers.
type Trainer struct {
	store    ArtifactSaver
	progress ProgressFunc
	opts     Options
}

// New creates a trainer that writes artifacts through store.
func New(store ArtifactSaver, opts Options) (*Trainer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Trainer{store: store, opts: opts}, nil
}

// OnProgress registers fn to be told when each stage of Run starts.
func (t *Trainer) OnProgress(fn ProgressFunc) {
	t.progress = fn
}

// Options returns the trainer configuration.
func (t *Trainer) Options() Options {
	return t.opts
}

// Train fits a classifier on all examples.
func (t *Trainer) Train(ctx context.Context, examples []model.LabeledExample) (*classification.Classifier, error) {
	clf, err := classification.New(t.opts.Classifier)
	if err != nil {
		return nil, err
	}
	if err := clf.Fit(ctx, examples); err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	return clf, nil
}

// Evaluate holds out a stratified test split, fits on the remainder and scores
// the held-out examples.
func (t *Trainer) Evaluate(ctx context.Context, examples []model.LabeledExample) (*model.Evaluation, error) {
	train, test, err := classification.StratifiedSplit(examples, t.opts.TestSize, t.opts.Seed)
	if err != nil {
		return nil, common.NewDataError("", "cannot split dataset for evaluation", err)
	}

	clf, err := t.Train(ctx, train)
	if err != nil {
		return nil, err
	}

	eval, err := classification.Evaluate(clf, test)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate classifier: %w", err)
	}
	eval.TrainSize = len(train)

	slog.Info("Evaluated classifier",
		"accuracy", fmt.Sprintf("%.3f", eval.Accuracy),
		"train", eval.TrainSize,
		"test", eval.TestSize)
	return &eval, nil
}

// Run loads the dataset at datasetPath, optionally evaluates on a held-out
// split, fits on every example and saves the artifact to artifactPath. Nothing
// is written unless every earlier stage succeeds.
func (t *Trainer) Run(ctx context.Context, datasetPath, artifactPath string) (*Result, error) {
	if t.store == nil {
		return nil, errors.New("trainer has no artifact store")
	}
	start := time.Now()

	total := 4
	if t.opts.Evaluate {
		total = 5
	}
	step := 0
	next := func(stage Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		step++
		common.LogDebug("Training stage", common.Fields{"stage": stage, "step": step, "total": total})
		if t.progress != nil {
			t.progress(stage, step, total)
		}
		return nil
	}

	if err := next(StageLoad); err != nil {
		return nil, err
	}
	examples, err := dataset.Load(datasetPath)
	if err != nil {
		return nil, err
	}
	counts := dataset.Summary(examples)
	result := &Result{
		Examples:     len(examples),
		ScamCount:    counts[model.LabelScam],
		NotScamCount: counts[model.LabelNotScam],
		ArtifactPath: artifactPath,
	}
	slog.Info("Loaded training data",
		"path", datasetPath,
		"examples", result.Examples,
		"scam", result.ScamCount,
		"not_scam", result.NotScamCount)

	if t.opts.Evaluate {
		if err := next(StageEvaluate); err != nil {
			return nil, err
		}
		if result.Evaluation, err = t.Evaluate(ctx, examples); err != nil {
			return nil, err
		}
	}

	if err := next(StageFit); err != nil {
		return nil, err
	}
	clf, err := t.Train(ctx, examples)
	if err != nil {
		return nil, err
	}

	if err := next(StageSave); err != nil {
		return nil, err
	}
	if err := t.store.Save(ctx, artifactPath, clf); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	if err := next(StageProbe); err != nil {
		return nil, err
	}
	result.Probes = Probe(clf, ProbeMessages)
	result.Duration = time.Since(start)

	slog.Info("Training complete",
		"artifact", artifactPath,
		"vocabulary", clf.VocabularySize(),
		"duration", result.Duration)
	return result, nil
}

// Probe scores each message with clf. Messages that fail to score are skipped.
func Probe(clf *classification.Classifier, messages []string) []Prediction {
	out := make([]Prediction, 0, len(messages))
	for _, msg := range messages {
		label, confidence, err := clf.PredictLabel(msg)
		if err != nil {
			slog.Warn("Probe prediction failed", "message", msg, "error", err)
			continue
		}
		out = append(out, Prediction{Message: msg, Label: label, Confidence: confidence})
	}
	return out
}
