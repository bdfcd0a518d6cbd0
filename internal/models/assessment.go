package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assessment is one stored survey result. Rows are append-only.
type Assessment struct {
	ID              uint                          `json:"id" gorm:"primaryKey"`
	UserID          string                        `json:"user_id" gorm:"not null;size:255;index:idx_assessment_user_time"`
	Score           int                           `json:"score"`
	Risk            RiskTier                      `json:"risk" gorm:"size:10"`
	Metrics         datatypes.JSONType[Metrics]   `json:"metrics" gorm:"type:jsonb"`
	Summary         string                        `json:"summary" gorm:"type:text"`
	Recommendations datatypes.JSONSlice[string]   `json:"recommendations" gorm:"type:jsonb"`
	Answers         datatypes.JSONType[AnswerSet] `json:"answers" gorm:"type:jsonb"`
	Source          ScoreSource                   `json:"source" gorm:"size:20"`
	Timestamp       time.Time                     `json:"timestamp" gorm:"not null;index:idx_assessment_user_time"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// NewAssessment records a result for the given user at the given time.
func NewAssessment(userID string, answers AnswerSet, result *ScoreResult, at time.Time) *Assessment {
	return &Assessment{
		UserID:          userID,
		Score:           result.Score,
		Risk:            result.Risk,
		Metrics:         datatypes.NewJSONType(result.Metrics),
		Summary:         result.Summary,
		Recommendations: datatypes.JSONSlice[string](result.Recommendations),
		Answers:         datatypes.NewJSONType(answers),
		Source:          result.Source,
		Timestamp:       at,
	}
}

// Result converts a stored row back to a ScoreResult.
func (a *Assessment) Result() ScoreResult {
	return ScoreResult{
		Score:           a.Score,
		Risk:            a.Risk,
		Metrics:         a.Metrics.Data(),
		Summary:         a.Summary,
		Recommendations: []string(a.Recommendations),
		Source:          a.Source,
	}
}
