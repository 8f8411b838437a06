package classification

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Veraticus/scamguard/internal/model"
)

// StratifiedSplit holds out testSize of each label's examples. The split is
// deterministic for a given seed.
func StratifiedSplit(examples []model.LabeledExample, testSize float64, seed int64) (train, test []model.LabeledExample, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0,1), got %g", testSize)
	}

	byLabel := make(map[model.Label][]model.LabeledExample)
	for _, ex := range examples {
		byLabel[ex.Label] = append(byLabel[ex.Label], ex)
	}
	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible split, not security sensitive
	for _, l := range labels {
		group := append([]model.LabeledExample(nil), byLabel[model.Label(l)]...)
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })

		nTest := int(float64(len(group))*testSize + 0.5)
		if nTest == 0 && len(group) > 1 {
			nTest = 1
		}
		if nTest >= len(group) {
			nTest = len(group) - 1
		}
		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}

	if len(test) == 0 {
		return nil, nil, fmt.Errorf("not enough examples to hold out a test set")
	}
	return train, test, nil
}

// Evaluate scores the classifier on labeled examples.
func Evaluate(c *Classifier, examples []model.LabeledExample) (model.Evaluation, error) {
	eval := model.Evaluation{
		Classes:  make(map[model.Label]model.ClassMetrics),
		TestSize: len(examples),
	}
	if len(examples) == 0 {
		return eval, fmt.Errorf("no examples to evaluate")
	}

	truePos := make(map[model.Label]int)
	predicted := make(map[model.Label]int)
	actual := make(map[model.Label]int)
	correct := 0

	for _, ex := range examples {
		got, _, err := c.Predict(ex.Text)
		if err != nil {
			return eval, err
		}
		predicted[got]++
		actual[ex.Label]++
		if got == ex.Label {
			correct++
			truePos[got]++
		}
	}

	eval.Accuracy = float64(correct) / float64(len(examples))
	for _, l := range model.Labels() {
		m := model.ClassMetrics{Support: actual[l]}
		if predicted[l] > 0 {
			m.Precision = float64(truePos[l]) / float64(predicted[l])
		}
		if actual[l] > 0 {
			m.Recall = float64(truePos[l]) / float64(actual[l])
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		eval.Classes[l] = m
	}
	return eval, nil
}
