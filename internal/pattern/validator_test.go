package pattern

import (
	"testing"

	"github.com/Veraticus/scamguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	valid := Rule{
		Name:        "otp_request",
		Expressions: []string{`otp`},
		Severity:    model.SeverityCritical,
		Category:    CategorySecurity,
	}

	tests := []struct {
		name    string
		wantErr error
		rules   []Rule
	}{
		{
			name:  "valid rules",
			rules: []Rule{valid},
		},
		{
			name:  "empty catalog",
			rules: []Rule{},
		},
		{
			name:    "empty name",
			rules:   []Rule{{Expressions: []string{`x`}, Severity: model.SeverityLow, Category: "c"}},
			wantErr: ErrEmptyRuleName,
		},
		{
			name:    "duplicate name",
			rules:   []Rule{valid, valid},
			wantErr: ErrDuplicateRule,
		},
		{
			name:    "unknown severity",
			rules:   []Rule{{Name: "r", Expressions: []string{`x`}, Severity: "severe", Category: "c"}},
			wantErr: ErrInvalidSeverity,
		},
		{
			name:    "missing category",
			rules:   []Rule{{Name: "r", Expressions: []string{`x`}, Severity: model.SeverityLow}},
			wantErr: ErrEmptyCategory,
		},
		{
			name:    "no expressions",
			rules:   []Rule{{Name: "r", Severity: model.SeverityLow, Category: "c"}},
			wantErr: ErrExpressionCount,
		},
		{
			name: "too many expressions",
			rules: []Rule{{
				Name:        "r",
				Expressions: []string{`a`, `b`, `c`, `d`, `e`, `f`, `g`},
				Severity:    model.SeverityLow,
				Category:    "c",
			}},
			wantErr: ErrExpressionCount,
		},
		{
			name:    "invalid regex",
			rules:   []Rule{{Name: "r", Expressions: []string{`[invalid`}, Severity: model.SeverityLow, Category: "c"}},
			wantErr: ErrInvalidExpression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.rules)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rules), c.Len())
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 15, c.Len())

	names := make(map[string]bool)
	for _, rule := range c.Rules() {
		assert.False(t, names[rule.Name], "duplicate rule %s", rule.Name)
		names[rule.Name] = true
		assert.True(t, rule.Severity.Valid(), rule.Name)
		assert.NotEmpty(t, rule.Explanation, rule.Name)
		assert.True(t, c.HasCategory(rule.Category))
	}

	assert.Equal(t, []string{
		"authority", "delivery", "employment", "enticement", "financial",
		"identity", "phishing", "security", "social", "tactic", "threat",
	}, c.Categories())
}

func TestCatalog_RulesAreCopies(t *testing.T) {
	c := DefaultCatalog()
	rules := c.Rules()
	rules[0].Expressions[0] = "mutated"
	rules[0].Name = "mutated"

	again := c.Rules()
	assert.Equal(t, "lottery_winning", again[0].Name)
	assert.Equal(t, "won", again[0].Expressions[0])
}
