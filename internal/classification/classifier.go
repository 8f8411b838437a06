package classification

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
)

// ErrNotFitted is returned when predicting with an untrained classifier.
var ErrNotFitted = errors.New("classifier is not fitted")

// Options configures the vectorizer and the model.
type Options struct {
	MaxFeatures int
	NGramMax    int
	Alpha       float64
	StopWords   bool
}

// DefaultOptions returns the settings the shipped model is trained with.
func DefaultOptions() Options {
	return Options{
		MaxFeatures: 5000,
		NGramMax:    2,
		Alpha:       1.0,
		StopWords:   true,
	}
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	switch {
	case o.MaxFeatures <= 0:
		return fmt.Errorf("%w: max features must be positive", common.ErrInvalidConfig)
	case o.NGramMax < 1 || o.NGramMax > 3:
		return fmt.Errorf("%w: ngram max must be between 1 and 3", common.ErrInvalidConfig)
	case o.Alpha <= 0:
		return fmt.Errorf("%w: alpha must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// Classifier is a fitted TF-IDF + naive Bayes pipeline. It is read-only after
// Fit and safe for concurrent prediction.
type Classifier struct {
	trainedAt  time.Time
	tokenizer  *Tokenizer
	vectorizer *Vectorizer
	bayes      *NaiveBayes
	options    Options
	documents  int
	fitted     bool
}

// New creates an unfitted classifier.
func New(opts Options) (*Classifier, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		options:    opts,
		tokenizer:  NewTokenizer(opts.NGramMax, opts.StopWords),
		vectorizer: NewVectorizer(opts.MaxFeatures),
		bayes:      NewNaiveBayes(opts.Alpha),
	}, nil
}

// Fit trains the pipeline. Both labels must be present.
func (c *Classifier) Fit(ctx context.Context, examples []model.LabeledExample) error {
	if len(examples) == 0 {
		return common.NewDataError("", "no training examples", nil)
	}
	counts := make(map[model.Label]int)
	for _, ex := range examples {
		counts[ex.Label]++
	}
	for _, l := range model.Labels() {
		if counts[l] == 0 {
			return common.NewDataError("", fmt.Sprintf("missing examples labeled %q", l), nil)
		}
	}

	docs := make([][]string, len(examples))
	labels := make([]model.Label, len(examples))
	for i, ex := range examples {
		docs[i] = c.tokenizer.Terms(ex.Text)
		labels[i] = ex.Label
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.vectorizer.Fit(docs)
	if c.vectorizer.Size() == 0 {
		return common.NewDataError("", "training texts produced an empty vocabulary", nil)
	}

	vectors := make([]SparseVector, len(docs))
	for i, doc := range docs {
		vectors[i] = c.vectorizer.Transform(doc)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.bayes.Fit(vectors, labels, c.vectorizer.Size())
	c.documents = len(examples)
	c.trainedAt = time.Now().UTC()
	c.fitted = true
	return nil
}

// PredictProba returns the posterior probability of each label for text.
func (c *Classifier) PredictProba(text string) (map[model.Label]float64, error) {
	if !c.IsLoaded() {
		return nil, ErrNotFitted
	}
	probs := c.bayes.PredictProba(c.vectorizer.Transform(c.tokenizer.Terms(text)))
	out := make(map[model.Label]float64, len(probs))
	for i, label := range c.bayes.classes {
		out[label] = probs[i]
	}
	return out, nil
}

// Predict returns the most probable label and its probability.
func (c *Classifier) Predict(text string) (model.Label, float64, error) {
	if !c.IsLoaded() {
		return "", 0, ErrNotFitted
	}
	probs := c.bayes.PredictProba(c.vectorizer.Transform(c.tokenizer.Terms(text)))
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if math.IsNaN(probs[best]) {
		return "", 0, fmt.Errorf("%w: non-finite probability", common.ErrPrediction)
	}
	return c.bayes.classes[best], probs[best], nil
}

// PredictLabel returns the predicted label and its confidence as a percentage
// rounded to one decimal place.
func (c *Classifier) PredictLabel(text string) (string, float64, error) {
	label, p, err := c.Predict(text)
	if err != nil {
		return "", 0, err
	}
	return string(label), math.Round(p*1000) / 10, nil
}

// IsLoaded reports whether the classifier has been fitted or restored.
func (c *Classifier) IsLoaded() bool {
	return c != nil && c.fitted
}

// Options returns the training options.
func (c *Classifier) Options() Options {
	return c.options
}

// Documents returns the number of examples the classifier was trained on.
func (c *Classifier) Documents() int {
	return c.documents
}

// TrainedAt returns when the classifier was fitted.
func (c *Classifier) TrainedAt() time.Time {
	return c.trainedAt
}

// VocabularySize returns the number of features.
func (c *Classifier) VocabularySize() int {
	return c.vectorizer.Size()
}

// String describes the pipeline.
func (c *Classifier) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tfidf(max_features=%d, ngram=1..%d, stop_words=%t) + multinomial_nb(alpha=%g)",
		c.options.MaxFeatures, c.options.NGramMax, c.options.StopWords, c.options.Alpha)
	if c.IsLoaded() {
		fmt.Fprintf(&b, " [%d terms, %d documents]", c.vectorizer.Size(), c.documents)
	}
	return b.String()
}
