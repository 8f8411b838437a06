// Package risk turns scam indicator findings into a risk assessment and advice.
//
// The score is a severity-mix percentage: the summed severity weights of the
// findings divided by the weight they would carry if every one were critical.
// A single critical finding therefore scores 100 while a low finding among
// criticals pulls the score down. It is not a calibrated scam probability.
package risk

import (
	"math"

	"github.com/Veraticus/scamguard/internal/model"
)

// Level thresholds, inclusive lower bounds.
const (
	CriticalThreshold = 75.0
	HighThreshold     = 50.0
	MediumThreshold   = 25.0
)

// Score aggregates findings into a score in [0,100] and a risk level.
func Score(findings []model.Finding) model.RiskAssessment {
	if len(findings) == 0 {
		return model.RiskAssessment{Score: 0, Level: model.RiskLow}
	}

	total := 0
	for _, f := range findings {
		total += f.Severity.Weight()
	}
	maxPossible := len(findings) * model.MaxSeverityWeight

	percentage := float64(total) / float64(maxPossible) * 100

	return model.RiskAssessment{
		Score: roundTenth(percentage),
		Level: LevelFor(percentage),
	}
}

// LevelFor maps a percentage onto a risk level.
func LevelFor(percentage float64) model.RiskLevel {
	switch {
	case percentage >= CriticalThreshold:
		return model.RiskCritical
	case percentage >= HighThreshold:
		return model.RiskHigh
	case percentage >= MediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
