package models

type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// RiskTiers lists the tiers in the order analytics reports them.
var RiskTiers = []RiskTier{RiskHigh, RiskLow, RiskMedium}

func (r RiskTier) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

type ScoreSource string

const (
	SourceAI       ScoreSource = "ai"
	SourceFallback ScoreSource = "fallback"
)

// Metrics are the three 0-100 sub-scores derived alongside the overall score.
// Stress is inverted: higher is worse.
type Metrics struct {
	Focus        int `json:"focus"`
	Stress       int `json:"stress"`
	Satisfaction int `json:"satisfaction"`
}

// AnswerSet maps a question id to a Likert value in 1..5.
type AnswerSet map[int]int

// Clone returns a copy so callers cannot mutate a submitted set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ScoreResult is the outcome of resolving one answer set.
type ScoreResult struct {
	Score           int         `json:"score"`
	Risk            RiskTier    `json:"risk"`
	Metrics         Metrics     `json:"metrics"`
	Summary         string      `json:"summary"`
	Recommendations []string    `json:"recommendations"`
	Source          ScoreSource `json:"source"`
}
