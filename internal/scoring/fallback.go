package scoring

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/happynation/wellbeing-service/internal/models"
)

const (
	likertMin = 1
	likertMax = 5

	// A score strictly above lowRiskAbove is Low risk, strictly above
	// mediumRiskAbove is Medium, anything else is High.
	lowRiskAbove    = 75
	mediumRiskAbove = 45

	defaultDisplayName = "Employee"
)

// RandomSource supplies uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NormalizedScore returns the polarity-corrected 0-100 score for answers.
// An empty set scores 0.
func NormalizedScore(answers models.AnswerSet, negative map[int]bool) int {
	if len(answers) == 0 {
		return 0
	}

	total := 0
	for id, v := range answers {
		if negative[id] {
			total += (likertMax + likertMin) - v
		} else {
			total += v
		}
	}
	maxPossible := likertMax * len(answers)

	// round(100*total/max) with halves rounded up, in integers
	return (200*total + maxPossible) / (2 * maxPossible)
}

// TierFor maps a normalized score to a risk tier.
func TierFor(score int) models.RiskTier {
	switch {
	case score > lowRiskAbove:
		return models.RiskLow
	case score > mediumRiskAbove:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

type tierCopy struct {
	summary         string
	recommendations []string
}

var tierTemplates = map[models.RiskTier]tierCopy{
	models.RiskLow: {
		summary: "Excellent well-being! %s, your engagement and satisfaction levels are inspiring.",
		recommendations: []string{
			"Share your positive strategies with the team",
			"Maintain your work-life boundaries",
			"Consider mentoring peers to boost satisfaction",
		},
	},
	models.RiskMedium: {
		summary: "You're doing okay %s, but there are signs of emerging stress and fatigue.",
		recommendations: []string{
			"Take regular micro-breaks tailored to your rhythm",
			"Discuss workload distribution with your manager",
			"Prioritize sleep hygiene this week",
		},
	},
	models.RiskHigh: {
		summary: "Critical Alert: %s, your responses indicate high burnout risk and exhaustion.",
		recommendations: []string{
			"Immediate consultation with HR recommended",
			"Disconnect completely from work this weekend",
			"Review core responsibilities for reduction",
		},
	},
}

// Fallback is the deterministic local scorer used when the model is
// unavailable. Only the sub-metrics depend on the random source.
type Fallback struct {
	rnd RandomSource
}

// NewFallback returns a scorer drawing jitter from rnd, or from the global
// generator when rnd is nil.
func NewFallback(rnd RandomSource) *Fallback {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Fallback{rnd: rnd}
}

// Score resolves answers without any external call. It never fails.
func (f *Fallback) Score(answers models.AnswerSet, negative map[int]bool, name string) *models.ScoreResult {
	if name == "" {
		name = defaultDisplayName
	}

	score := NormalizedScore(answers, negative)
	tier := TierFor(score)
	copyFor := tierTemplates[tier]

	s := float64(score)
	metrics := models.Metrics{
		Stress:       clampPercent(100 - s + (f.rnd.Float64()*10 - 5)),
		Focus:        clampPercent(s + (f.rnd.Float64()*15 - 5)),
		Satisfaction: clampPercent(s + f.rnd.Float64()*10),
	}

	recs := make([]string, len(copyFor.recommendations))
	copy(recs, copyFor.recommendations)

	return &models.ScoreResult{
		Score:           score,
		Risk:            tier,
		Metrics:         metrics,
		Summary:         fmt.Sprintf(copyFor.summary, name),
		Recommendations: recs,
		Source:          models.SourceFallback,
	}
}

func clampPercent(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
