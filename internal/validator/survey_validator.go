package validator

import (
	"fmt"
	"strconv"

	"github.com/happynation/wellbeing-service/internal/models"
)

const (
	LikertMin = 1
	LikertMax = 5
)

// SurveyValidator checks a submitted answer set against the question bank
type SurveyValidator struct{}

func NewSurveyValidator() *SurveyValidator {
	return &SurveyValidator{}
}

// ValidateAnswers requires every answer to target an active question with a
// value in 1..5. With requireAll set, every active question must be answered.
func (v *SurveyValidator) ValidateAnswers(answers models.AnswerSet, active []models.Question, requireAll bool) ValidationErrors {
	var errs ValidationErrors

	if len(answers) == 0 {
		return append(errs, ValidationError{Field: "answers", Message: "must not be empty", Rule: "required"})
	}

	known := make(map[int]bool, len(active))
	for _, q := range active {
		known[q.ID] = true
	}

	for id, value := range answers {
		field := "answers." + strconv.Itoa(id)
		if !known[id] {
			errs = append(errs, ValidationError{Field: field, Message: "is not an active question", Value: id, Rule: "question"})
			continue
		}
		if value < LikertMin || value > LikertMax {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be between %d and %d", LikertMin, LikertMax),
				Value:   value,
				Rule:    "likert",
			})
		}
	}

	if requireAll {
		for _, q := range active {
			if _, ok := answers[q.ID]; !ok {
				errs = append(errs, ValidationError{
					Field:   "answers." + strconv.Itoa(q.ID),
					Message: "is required",
					Rule:    "required",
				})
			}
		}
	}

	return errs
}
