package classification

import (
	"math"
	"sort"
)

// SparseVector maps vocabulary indices to weights.
type SparseVector map[int]float64

// Vectorizer converts terms into L2-normalized TF-IDF vectors over a bounded
// vocabulary.
type Vectorizer struct {
	vocabulary  map[string]int
	terms       []string
	idf         []float64
	MaxFeatures int
}

// NewVectorizer creates an unfitted vectorizer keeping at most maxFeatures terms.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Fit learns the vocabulary and IDF weights from tokenized documents.
func (v *Vectorizer) Fit(docs [][]string) {
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			corpusFreq[term]++
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
}

// Transform returns the TF-IDF vector of a tokenized document.
func (v *Vectorizer) Transform(doc []string) SparseVector {
	vec := make(SparseVector)
	for _, term := range doc {
		if idx, ok := v.vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx, tf := range vec {
		w := tf * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// Size returns the vocabulary size.
func (v *Vectorizer) Size() int {
	return len(v.terms)
}

// Terms returns the vocabulary in index order.
func (v *Vectorizer) Terms() []string {
	return append([]string(nil), v.terms...)
}

// IDF returns the inverse document frequency of the term at idx.
func (v *Vectorizer) IDF(idx int) float64 {
	return v.idf[idx]
}
