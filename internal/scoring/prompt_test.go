package scoring

import (
	"testing"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	req := sampleRequest()
	req.PreviousScores = []int{40, 55}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "Name: Dana")
	assert.Contains(t, prompt, "Role: Engineer")
	assert.Contains(t, prompt, "Age: 31")
	assert.Contains(t, prompt, "Previous Scores: 40, 55")
	assert.Contains(t, prompt, "Questions with IDs 1, 2, 3 are NEGATIVE")
	assert.Contains(t, prompt, `- [ID: 1] "How often do you feel emotionally drained from your work?": 5`)
	assert.NotContains(t, prompt, "[ID: 6]")
}

func TestBuildPrompt_Defaults(t *testing.T) {
	prompt := BuildPrompt(Request{Answers: models.AnswerSet{4: 3}})

	assert.Contains(t, prompt, "Name: Employee")
	assert.Contains(t, prompt, "Role: Team Member")
	assert.Contains(t, prompt, "Age: Unknown")
	assert.Contains(t, prompt, "Previous Scores: None")
}

func TestParseReply(t *testing.T) {
	t.Run("fenced reply", func(t *testing.T) {
		res, err := ParseReply(goodReply)
		assert.NoError(t, err)
		assert.Equal(t, 82, res.Score)
		assert.Equal(t, 20, res.Metrics.Stress)
	})

	t.Run("prose around the object", func(t *testing.T) {
		res, err := ParseReply(`Here you go: {"score": 30, "risk": "High", "metrics": {"focus": 1, "stress": 90, "satisfaction": 10}, "summary": "Rest {soon}."} thanks`)
		assert.NoError(t, err)
		assert.Equal(t, models.RiskHigh, res.Risk)
		assert.Equal(t, "Rest {soon}.", res.Summary)
	})

	t.Run("missing score", func(t *testing.T) {
		_, err := ParseReply(`{"risk": "Low", "summary": "x"}`)
		var ae *AnalysisError
		assert.ErrorAs(t, err, &ae)
	})

	t.Run("empty summary", func(t *testing.T) {
		_, err := ParseReply(`{"score": 50, "risk": "Medium", "summary": "  "}`)
		assert.Error(t, err)
	})
}
