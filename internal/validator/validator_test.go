package validator

import (
	"testing"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configPayload struct {
	Frequency string `json:"frequency" validate:"required,survey_frequency"`
	Value     int    `json:"value" validate:"likert"`
	Risk      string `json:"risk" validate:"omitempty,risk_tier"`
	Report    string `json:"type" validate:"omitempty,report_type"`
}

func TestValidateStruct_CustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateStruct(configPayload{Frequency: "weekly", Value: 3, Risk: "High", Report: "Monthly"}))

	err := v.ValidateStruct(configPayload{Frequency: "hourly", Value: 9, Risk: "Severe", Report: "Yearly"})
	require.Error(t, err)

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := map[string]string{}
	for _, e := range ve {
		fields[e.Field] = e.Rule
	}
	assert.Equal(t, map[string]string{
		"frequency": "survey_frequency",
		"value":     "likert",
		"risk":      "risk_tier",
		"type":      "report_type",
	}, fields)
}

func TestSurveyValidator_ValidateAnswers(t *testing.T) {
	active := models.DefaultQuestions()[:3]
	sv := NewSurveyValidator()

	tests := []struct {
		name       string
		answers    models.AnswerSet
		requireAll bool
		wantRules  []string
	}{
		{"valid partial", models.AnswerSet{1: 1, 2: 5}, false, nil},
		{"valid complete", models.AnswerSet{1: 1, 2: 5, 3: 3}, true, nil},
		{"empty", models.AnswerSet{}, false, []string{"required"}},
		{"out of range", models.AnswerSet{1: 0, 2: 6}, false, []string{"likert", "likert"}},
		{"unknown question", models.AnswerSet{42: 3}, false, []string{"question"}},
		{"missing answers", models.AnswerSet{1: 3}, true, []string{"required", "required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := sv.ValidateAnswers(tt.answers, active, tt.requireAll)
			var rules []string
			for _, e := range errs {
				rules = append(rules, e.Rule)
			}
			assert.ElementsMatch(t, tt.wantRules, rules)
		})
	}
}
