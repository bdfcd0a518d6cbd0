package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/happynation/wellbeing-service/internal/models"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	EventAssessmentCompleted EventType = "assessment.completed"
	EventHighRiskDetected    EventType = "employee.high_risk"
	EventFeedbackSent        EventType = "feedback.sent"
	EventSurveyScheduled     EventType = "survey.scheduled"
	EventEmployeeRegistered  EventType = "employee.registered"
	EventEmployeeRemoved     EventType = "employee.removed"
)

const (
	eventSource  = "wellbeing-service"
	eventVersion = "1.0"
)

// NotificationEvent is the envelope for every published event
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AssessmentCompletedEvent struct {
	EmployeeID string          `json:"employee_id"`
	Score      int             `json:"score"`
	Risk       models.RiskTier `json:"risk"`
	Metrics    models.Metrics  `json:"metrics"`
	Source     string          `json:"source"`
	At         time.Time       `json:"at"`
}

type HighRiskEvent struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Score        int    `json:"score"`
}

type FeedbackSentEvent struct {
	FeedbackID uint   `json:"feedback_id"`
	EmployeeID string `json:"employee_id"`
	Preview    string `json:"preview"`
}

type SurveyScheduledEvent struct {
	EmployeeID    string `json:"employee_id"`
	ScheduledDate string `json:"scheduled_date"`
	Frequency     string `json:"frequency"`
}

type EmployeeLifecycleEvent struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
}

func newEvent(t EventType, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewAssessmentCompletedEvent(employeeID string, result *models.ScoreResult, at time.Time) *NotificationEvent {
	return newEvent(EventAssessmentCompleted, AssessmentCompletedEvent{
		EmployeeID: employeeID,
		Score:      result.Score,
		Risk:       result.Risk,
		Metrics:    result.Metrics,
		Source:     string(result.Source),
		At:         at,
	})
}

func NewHighRiskEvent(employee *models.Employee, score int) *NotificationEvent {
	return newEvent(EventHighRiskDetected, HighRiskEvent{
		EmployeeID:   employee.Email,
		EmployeeName: employee.Name,
		Score:        score,
	})
}

func NewFeedbackSentEvent(fb *models.Feedback) *NotificationEvent {
	preview := fb.Message
	if r := []rune(preview); len(r) > 80 {
		preview = string(r[:80])
	}
	return newEvent(EventFeedbackSent, FeedbackSentEvent{
		FeedbackID: fb.ID,
		EmployeeID: fb.EmployeeID,
		Preview:    preview,
	})
}

func NewSurveyScheduledEvent(employeeID string, cfg models.SurveyConfig) *NotificationEvent {
	return newEvent(EventSurveyScheduled, SurveyScheduledEvent{
		EmployeeID:    employeeID,
		ScheduledDate: cfg.ScheduledDate,
		Frequency:     string(cfg.Frequency),
	})
}

func NewEmployeeRegisteredEvent(e *models.Employee) *NotificationEvent {
	return newEvent(EventEmployeeRegistered, EmployeeLifecycleEvent{EmployeeID: e.Email, Name: e.Name, Role: e.Role})
}

func NewEmployeeRemovedEvent(employeeID string) *NotificationEvent {
	return newEvent(EventEmployeeRemoved, EmployeeLifecycleEvent{EmployeeID: employeeID})
}
