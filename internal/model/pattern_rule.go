package model

// PatternRule is a named group of match expressions that together indicate one
// kind of scam tactic.
type PatternRule struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Explanation string   `json:"explanation"`
	Severity    Severity `json:"severity"`
	Expressions []string `json:"patterns"`
}

// Finding is one matched indicator of suspicious content in a message.
type Finding struct {
	Rule              string   `json:"rule"`
	Type              string   `json:"type"`
	Explanation       string   `json:"explanation"`
	Severity          Severity `json:"severity"`
	Category          string   `json:"category"`
	MatchedExpression string   `json:"matched_pattern"`
}
