package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Words(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		stopWords bool
		want      []string
	}{
		{
			name:      "case folded and punctuation stripped",
			text:      "Hello, WORLD!",
			stopWords: true,
			want:      []string{"hello", "world"},
		},
		{
			name:      "single characters dropped",
			text:      "a b 3 pm",
			stopWords: false,
			want:      []string{"pm"},
		},
		{
			name:      "stop words removed",
			text:      "Claim your prize from the bank",
			stopWords: true,
			want:      []string{"claim", "prize", "bank"},
		},
		{
			name:      "stop words kept when disabled",
			text:      "claim your prize",
			stopWords: false,
			want:      []string{"claim", "your", "prize"},
		},
		{
			name:      "fullwidth normalized",
			text:      "ＦＲＥＥ gift",
			stopWords: true,
			want:      []string{"free", "gift"},
		},
		{
			name:      "empty",
			text:      "",
			stopWords: true,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTokenizer(1, tt.stopWords).Words(tt.text)
			assert.Equal(t, tt.want, append([]string{}, got...))
		})
	}
}

func TestTokenizer_Terms(t *testing.T) {
	tok := NewTokenizer(2, true)
	assert.Equal(t,
		[]string{"claim", "prize", "today", "claim prize", "prize today"},
		tok.Terms("Claim your prize today"))

	assert.Equal(t, []string{"claim", "prize"}, NewTokenizer(1, true).Terms("claim your prize"))
	assert.Equal(t, 1, NewTokenizer(0, true).NGramMax)
}
