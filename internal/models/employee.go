package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleAdmin    UserRole = "admin"
	// RoleGuest is an anonymous survey taker with a session but no record.
	RoleGuest UserRole = "guest"
)

type SurveyFrequency string

const (
	FrequencyDaily   SurveyFrequency = "daily"
	FrequencyWeekly  SurveyFrequency = "weekly"
	FrequencyMonthly SurveyFrequency = "monthly"
)

// SurveyConfig controls when and how an employee is surveyed.
type SurveyConfig struct {
	Frequency       SurveyFrequency `json:"frequency"`
	QuestionCount   int             `json:"question_count"`
	QuestionTypes   []string        `json:"question_types"`
	IsSurveyVisible bool            `json:"is_survey_visible"`
	ScheduledDate   string          `json:"scheduled_date,omitempty"`
}

func DefaultSurveyConfig() SurveyConfig {
	return SurveyConfig{
		Frequency:       FrequencyWeekly,
		QuestionCount:   5,
		QuestionTypes:   []string{},
		IsSurveyVisible: true,
	}
}

// LastAssessment is denormalised onto the employee on every saved result.
type LastAssessment struct {
	Score   int       `json:"score"`
	Risk    RiskTier  `json:"risk"`
	Date    time.Time `json:"date"`
	Metrics *Metrics  `json:"metrics,omitempty"`
}

// Employee is keyed by email.
type Employee struct {
	Email        string `json:"id" gorm:"primaryKey;size:255"`
	Name         string `json:"name" gorm:"not null;size:100"`
	Role         string `json:"role" gorm:"size:100"`
	Age          int    `json:"age"`
	Image        string `json:"image" gorm:"size:500"`
	PasswordHash string `json:"-" gorm:"size:255"`

	LastAssessment datatypes.JSONType[LastAssessment] `json:"last_assessment" gorm:"type:jsonb"`
	SurveyConfig   datatypes.JSONType[SurveyConfig]   `json:"survey_config" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Latest returns the denormalised last assessment, if any.
func (e *Employee) Latest() (LastAssessment, bool) {
	la := e.LastAssessment.Data()
	if la.Date.IsZero() {
		return LastAssessment{}, false
	}
	return la, true
}

func (e *Employee) SetLatest(la LastAssessment) {
	e.LastAssessment = datatypes.NewJSONType(la)
}

// Admin is an HR account, keyed by email.
type Admin struct {
	Email        string    `json:"email" gorm:"primaryKey;size:255"`
	Name         string    `json:"name" gorm:"not null;size:100"`
	Image        string    `json:"image" gorm:"size:500"`
	PasswordHash string    `json:"-" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}
