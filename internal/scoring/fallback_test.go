package scoring

import (
	"math/rand/v2"
	"testing"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

var defaultNegative = map[int]bool{1: true, 2: true, 3: true}

func TestNormalizedScore(t *testing.T) {
	tests := []struct {
		name    string
		answers models.AnswerSet
		want    int
	}{
		{"empty set scores zero", models.AnswerSet{}, 0},
		{"nil set scores zero", nil, 0},
		{"all five on positive questions", models.AnswerSet{4: 5, 5: 5, 6: 5}, 100},
		{"all one on negative questions", models.AnswerSet{1: 1, 2: 1, 3: 1}, 100},
		{"all five on negative questions", models.AnswerSet{1: 5, 2: 5, 3: 5}, 20},
		{"all three everywhere", models.AnswerSet{1: 3, 2: 3, 3: 3, 4: 3, 5: 3, 6: 3}, 60},
		{"positive only is scaled mean", models.AnswerSet{4: 2, 5: 4}, 60},
		{"negative only is scaled inverted mean", models.AnswerSet{1: 2, 2: 4}, 60},
		{"stressed and disengaged", models.AnswerSet{1: 5, 2: 5, 3: 5, 4: 1, 5: 1}, 20},
		{"half rounds up", models.AnswerSet{4: 3, 5: 4, 6: 4, 7: 4, 8: 4, 9: 4, 10: 4, 11: 4}, 78},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizedScore(tt.answers, defaultNegative))
		})
	}
}

func TestNormalizedScore_OrderIndependent(t *testing.T) {
	answers := models.AnswerSet{1: 2, 2: 4, 3: 1, 4: 5, 5: 3, 6: 2, 7: 4}
	want := NormalizedScore(answers, defaultNegative)

	for i := 0; i < 20; i++ {
		shuffled := make(models.AnswerSet, len(answers))
		keys := make([]int, 0, len(answers))
		for k := range answers {
			keys = append(keys, k)
		}
		rand.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })
		for _, k := range keys {
			shuffled[k] = answers[k]
		}
		assert.Equal(t, want, NormalizedScore(shuffled, defaultNegative))
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskTier
	}{
		{100, models.RiskLow},
		{76, models.RiskLow},
		{75, models.RiskMedium},
		{46, models.RiskMedium},
		{45, models.RiskHigh},
		{0, models.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %d", tt.score)
	}
}

func TestFallback_Score(t *testing.T) {
	f := NewFallback(fixedSource(0.5))

	t.Run("high risk uses alert copy", func(t *testing.T) {
		res := f.Score(models.AnswerSet{1: 5, 2: 5, 3: 5, 4: 1, 5: 1}, defaultNegative, "Dana")
		assert.Equal(t, 20, res.Score)
		assert.Equal(t, models.RiskHigh, res.Risk)
		assert.Equal(t, "Critical Alert: Dana, your responses indicate high burnout risk and exhaustion.", res.Summary)
		assert.Equal(t, models.SourceFallback, res.Source)
		require.Len(t, res.Recommendations, 3)
		assert.Equal(t, "Immediate consultation with HR recommended", res.Recommendations[0])
	})

	t.Run("medium risk and default name", func(t *testing.T) {
		res := f.Score(models.AnswerSet{1: 3, 2: 3, 3: 3, 4: 3, 5: 3}, defaultNegative, "")
		assert.Equal(t, 60, res.Score)
		assert.Equal(t, models.RiskMedium, res.Risk)
		assert.Equal(t, "You're doing okay Employee, but there are signs of emerging stress and fatigue.", res.Summary)
	})

	t.Run("low risk", func(t *testing.T) {
		res := f.Score(models.AnswerSet{4: 5, 5: 5, 6: 5}, defaultNegative, "Sam")
		assert.Equal(t, 100, res.Score)
		assert.Equal(t, models.RiskLow, res.Risk)
		assert.Contains(t, res.Summary, "Excellent well-being! Sam")
	})

	t.Run("empty set does not panic", func(t *testing.T) {
		var res *models.ScoreResult
		assert.NotPanics(t, func() { res = f.Score(models.AnswerSet{}, defaultNegative, "") })
		assert.Equal(t, 0, res.Score)
		assert.Equal(t, models.RiskHigh, res.Risk)
	})

	t.Run("metrics follow the score at mid jitter", func(t *testing.T) {
		res := f.Score(models.AnswerSet{1: 3, 2: 3, 3: 3, 4: 3, 5: 3}, defaultNegative, "")
		assert.Equal(t, 40, res.Metrics.Stress)
		assert.Equal(t, 63, res.Metrics.Focus)
		assert.Equal(t, 65, res.Metrics.Satisfaction)
	})

	t.Run("recommendations are not shared between results", func(t *testing.T) {
		a := f.Score(models.AnswerSet{4: 5}, defaultNegative, "")
		a.Recommendations[0] = "changed"
		b := f.Score(models.AnswerSet{4: 5}, defaultNegative, "")
		assert.Equal(t, "Share your positive strategies with the team", b.Recommendations[0])
	})
}

func TestFallback_MetricsStayInRange(t *testing.T) {
	for _, r := range []float64{0, 0.25, 0.999999} {
		f := NewFallback(fixedSource(r))
		for _, answers := range []models.AnswerSet{
			{4: 5, 5: 5},
			{1: 5, 2: 5},
			{},
		} {
			res := f.Score(answers, defaultNegative, "")
			for _, m := range []int{res.Metrics.Focus, res.Metrics.Stress, res.Metrics.Satisfaction} {
				assert.GreaterOrEqual(t, m, 0)
				assert.LessOrEqual(t, m, 100)
			}
		}
	}
}

func TestFallback_ScoreIgnoresRandomSource(t *testing.T) {
	answers := models.AnswerSet{1: 2, 4: 4, 7: 5}
	a := NewFallback(fixedSource(0)).Score(answers, defaultNegative, "")
	b := NewFallback(fixedSource(0.9)).Score(answers, defaultNegative, "")
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Risk, b.Risk)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestNegativeSet_BurnoutIDsAlwaysInverted(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "Recreated after the bank was emptied"},
		{ID: 4, Text: "I feel inspired."},
		{ID: 13, Text: "I dread Mondays.", Negative: true},
	}
	req := Request{Questions: questions}

	assert.Equal(t, map[int]bool{1: true, 13: true}, req.negativeSet())
	assert.Equal(t, 100, NormalizedScore(models.AnswerSet{1: 1, 4: 5}, req.negativeSet()))
}
