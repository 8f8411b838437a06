package classification

import (
	"math"

	"github.com/Veraticus/scamguard/internal/model"
)

// NaiveBayes is a multinomial naive Bayes model over TF-IDF features.
type NaiveBayes struct {
	classes        []model.Label
	classCounts    []int
	classLogPrior  []float64
	featureLogProb [][]float64
	Alpha          float64
}

// NewNaiveBayes creates an unfitted model with additive smoothing alpha.
func NewNaiveBayes(alpha float64) *NaiveBayes {
	return &NaiveBayes{Alpha: alpha}
}

// Fit estimates class priors and per-class feature log probabilities.
func (nb *NaiveBayes) Fit(vectors []SparseVector, labels []model.Label, numFeatures int) {
	classIndex := make(map[model.Label]int)
	nb.classes = nb.classes[:0]
	for _, l := range model.Labels() {
		classIndex[l] = len(nb.classes)
		nb.classes = append(nb.classes, l)
	}
	for _, l := range labels {
		if _, ok := classIndex[l]; !ok {
			classIndex[l] = len(nb.classes)
			nb.classes = append(nb.classes, l)
		}
	}

	k := len(nb.classes)
	nb.classCounts = make([]int, k)
	featureCount := make([][]float64, k)
	for c := range featureCount {
		featureCount[c] = make([]float64, numFeatures)
	}

	for i, vec := range vectors {
		c := classIndex[labels[i]]
		nb.classCounts[c]++
		for idx, w := range vec {
			featureCount[c][idx] += w
		}
	}

	n := float64(len(labels))
	nb.classLogPrior = make([]float64, k)
	nb.featureLogProb = make([][]float64, k)
	for c := 0; c < k; c++ {
		nb.classLogPrior[c] = math.Log(float64(nb.classCounts[c]) / n)

		var total float64
		for _, fc := range featureCount[c] {
			total += fc
		}
		denom := total + nb.Alpha*float64(numFeatures)

		nb.featureLogProb[c] = make([]float64, numFeatures)
		for j, fc := range featureCount[c] {
			nb.featureLogProb[c][j] = math.Log((fc + nb.Alpha) / denom)
		}
	}
}

// jointLogLikelihood returns the unnormalized log posterior of each class.
func (nb *NaiveBayes) jointLogLikelihood(vec SparseVector) []float64 {
	jll := make([]float64, len(nb.classes))
	for c := range nb.classes {
		sum := nb.classLogPrior[c]
		for idx, w := range vec {
			sum += w * nb.featureLogProb[c][idx]
		}
		jll[c] = sum
	}
	return jll
}

// PredictProba returns the posterior probability of each class.
func (nb *NaiveBayes) PredictProba(vec SparseVector) []float64 {
	jll := nb.jointLogLikelihood(vec)

	maxLL := math.Inf(-1)
	for _, v := range jll {
		if v > maxLL {
			maxLL = v
		}
	}
	var sum float64
	probs := make([]float64, len(jll))
	for i, v := range jll {
		probs[i] = math.Exp(v - maxLL)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Classes returns the class labels in model order.
func (nb *NaiveBayes) Classes() []model.Label {
	return append([]model.Label(nil), nb.classes...)
}
