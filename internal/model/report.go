package model

import "time"

// RiskAssessment is the aggregated score of a set of findings.
type RiskAssessment struct {
	Level RiskLevel `json:"risk_level"`
	Score float64   `json:"risk_score"`
}

// AnalysisReport is the full result of analyzing one message. The risk
// assessment is flattened into the top-level JSON object.
type AnalysisReport struct {
	Timestamp       time.Time `json:"timestamp"`
	ClassifierLabel *string   `json:"ai_prediction"`
	ID              string    `json:"id"`
	OriginalMessage string    `json:"original_message"`
	Summary         string    `json:"summary"`
	Findings        []Finding `json:"scam_indicators"`
	Recommendations []string  `json:"recommendations"`
	RiskAssessment
	ClassifierConfidence float64 `json:"ai_confidence"`
	MessageLength        int     `json:"message_length"`
	HasLinkHint          bool    `json:"has_links"`
}

// Statistics describes the detector's configuration.
type Statistics struct {
	Categories     []string   `json:"categories"`
	SeverityLevels []Severity `json:"severity_levels"`
	PatternCount   int        `json:"total_patterns"`
	ModelLoaded    bool       `json:"model_loaded"`
}
