// Package model defines the core data structures for the scamguard application.
package model

// Severity grades how strongly a single indicator suggests a scam.
type Severity string

// Severity constants, strongest first.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// MaxSeverityWeight is the weight of the strongest severity.
const MaxSeverityWeight = 4

// Severities returns every severity level in descending order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Weight returns the scoring weight of the severity. Unknown severities weigh
// the same as low.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// Valid reports whether s is one of the four defined severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// RiskLevel is the discrete bucket derived from a risk score.
type RiskLevel string

// Risk level constants.
const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// IsSevere reports whether the level calls for the strongest warnings.
func (r RiskLevel) IsSevere() bool {
	return r == RiskCritical || r == RiskHigh
}
