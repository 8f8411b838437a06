// Package pattern provides the rule catalog and the matcher that turns a message
// into scam indicator findings.
package pattern

import (
	"github.com/Veraticus/scamguard/internal/model"
)

// IndicatorFinder scans a message for scam indicators.
type IndicatorFinder interface {
	// FindIndicators returns at most one finding per rule, in catalog order.
	FindIndicators(message string) []model.Finding
	// Catalog returns the rules the finder evaluates.
	Catalog() *Catalog
}

// Rule is an alias to the model.PatternRule type for convenience.
type Rule = model.PatternRule
