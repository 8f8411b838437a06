package model

import "fmt"

// Label is the class assigned to a training example.
type Label string

// Label constants.
const (
	LabelScam    Label = "scam"
	LabelNotScam Label = "not_scam"
)

// Labels returns the labels a training set must contain.
func Labels() []Label {
	return []Label{LabelNotScam, LabelScam}
}

// ParseLabel converts a raw label value into a Label.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case LabelScam, LabelNotScam:
		return Label(s), nil
	}
	return "", fmt.Errorf("unknown label %q", s)
}

// LabeledExample is a single training message.
type LabeledExample struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// ClassMetrics holds per-class evaluation figures.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Evaluation summarizes classifier performance on held-out examples.
type Evaluation struct {
	Classes   map[Label]ClassMetrics `json:"classes"`
	Accuracy  float64                `json:"accuracy"`
	TrainSize int                    `json:"train_size"`
	TestSize  int                    `json:"test_size"`
}
