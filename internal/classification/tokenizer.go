// Package classification implements the text classifier: a TF-IDF vectorizer
// feeding a multinomial naive Bayes model.
package classification

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into case-folded terms and n-grams.
type Tokenizer struct {
	NGramMax  int
	StopWords bool
}

// NewTokenizer creates a tokenizer producing n-grams of 1..ngramMax words.
func NewTokenizer(ngramMax int, stopWords bool) *Tokenizer {
	if ngramMax < 1 {
		ngramMax = 1
	}
	return &Tokenizer{
		NGramMax:  ngramMax,
		StopWords: stopWords,
	}
}

// Words returns the normalized word tokens of text. A token is a run of two or
// more letters or digits.
func (t *Tokenizer) Words(text string) []string {
	// cases.Caser keeps state and is not safe for concurrent use.
	folded := cases.Fold().String(norm.NFKC.String(text))

	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) < 2 {
			continue
		}
		if t.StopWords && isStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Terms returns the unigrams and n-grams of text. N-grams are built after stop
// words are removed.
func (t *Tokenizer) Terms(text string) []string {
	words := t.Words(text)
	if t.NGramMax == 1 {
		return words
	}

	terms := make([]string, 0, len(words)*t.NGramMax)
	terms = append(terms, words...)
	for n := 2; n <= t.NGramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}
