package pattern

import (
	"strings"

	"github.com/Veraticus/scamguard/internal/model"
)

var _ IndicatorFinder = (*Matcher)(nil)

// Matcher evaluates messages against a catalog.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a matcher over catalog. A nil catalog uses DefaultCatalog.
func NewMatcher(catalog *Catalog) *Matcher {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Matcher{catalog: catalog}
}

// Catalog returns the catalog the matcher evaluates.
func (m *Matcher) Catalog() *Catalog {
	return m.catalog
}

// FindIndicators returns one finding per rule whose expressions match message.
// Expressions are tried in declared order and the first match wins.
func (m *Matcher) FindIndicators(message string) []model.Finding {
	findings := make([]model.Finding, 0)
	if message == "" {
		return findings
	}

	lower := strings.ToLower(message)

	for _, rule := range m.catalog.rules {
		for i, re := range rule.expressions {
			if !re.MatchString(lower) {
				continue
			}
			findings = append(findings, model.Finding{
				Rule:              rule.Name,
				Type:              DisplayName(rule.Name),
				Explanation:       rule.Explanation,
				Severity:          rule.Severity,
				Category:          rule.Category,
				MatchedExpression: rule.Expressions[i],
			})
			break
		}
	}

	return findings
}

// DisplayName turns a rule name such as "lottery_winning" into "Lottery Winning".
func DisplayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
