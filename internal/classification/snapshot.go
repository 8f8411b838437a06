package classification

import (
	"fmt"
	"time"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
)

// ClassSnapshot holds the fitted parameters of one class.
type ClassSnapshot struct {
	Label          model.Label
	FeatureLogProb []float64
	LogPrior       float64
	Count          int
}

// Snapshot is the persisted state of a fitted classifier.
type Snapshot struct {
	TrainedAt time.Time
	Terms     []string
	IDF       []float64
	Classes   []ClassSnapshot
	Options   Options
	Documents int
}

// Snapshot exports the fitted state.
func (c *Classifier) Snapshot() (Snapshot, error) {
	if !c.IsLoaded() {
		return Snapshot{}, ErrNotFitted
	}
	s := Snapshot{
		Options:   c.options,
		TrainedAt: c.trainedAt,
		Documents: c.documents,
		Terms:     c.vectorizer.Terms(),
		IDF:       append([]float64(nil), c.vectorizer.idf...),
	}
	for i, label := range c.bayes.classes {
		s.Classes = append(s.Classes, ClassSnapshot{
			Label:          label,
			Count:          c.bayes.classCounts[i],
			LogPrior:       c.bayes.classLogPrior[i],
			FeatureLogProb: append([]float64(nil), c.bayes.featureLogProb[i]...),
		})
	}
	return s, nil
}

// FromSnapshot restores a fitted classifier.
func FromSnapshot(s Snapshot) (*Classifier, error) {
	c, err := New(s.Options)
	if err != nil {
		return nil, err
	}
	if len(s.Terms) == 0 || len(s.Terms) != len(s.IDF) {
		return nil, fmt.Errorf("%w: %d terms with %d idf weights", common.ErrCorruptArtifact, len(s.Terms), len(s.IDF))
	}
	if len(s.Classes) < 2 {
		return nil, fmt.Errorf("%w: %d classes", common.ErrCorruptArtifact, len(s.Classes))
	}

	c.vectorizer.terms = append([]string(nil), s.Terms...)
	c.vectorizer.idf = append([]float64(nil), s.IDF...)
	c.vectorizer.vocabulary = make(map[string]int, len(s.Terms))
	for i, term := range s.Terms {
		c.vectorizer.vocabulary[term] = i
	}

	for _, cs := range s.Classes {
		if len(cs.FeatureLogProb) != len(s.Terms) {
			return nil, fmt.Errorf("%w: class %s has %d feature weights, want %d",
				common.ErrCorruptArtifact, cs.Label, len(cs.FeatureLogProb), len(s.Terms))
		}
		c.bayes.classes = append(c.bayes.classes, cs.Label)
		c.bayes.classCounts = append(c.bayes.classCounts, cs.Count)
		c.bayes.classLogPrior = append(c.bayes.classLogPrior, cs.LogPrior)
		c.bayes.featureLogProb = append(c.bayes.featureLogProb, append([]float64(nil), cs.FeatureLogProb...))
	}

	c.documents = s.Documents
	c.trainedAt = s.TrainedAt
	c.fitted = true
	return c, nil
}
