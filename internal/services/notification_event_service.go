package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/happynation/wellbeing-service/internal/events"
	"github.com/happynation/wellbeing-service/internal/models"
)

// NotificationEventService publishes domain events to the event bus.
type NotificationEventService interface {
	NotifyAssessmentCompleted(ctx context.Context, employeeID string, result *models.ScoreResult, at time.Time) error
	NotifyHighRisk(ctx context.Context, employee *models.Employee, score int) error
	NotifyFeedbackSent(ctx context.Context, feedback *models.Feedback) error
	NotifySurveyScheduled(ctx context.Context, employeeID string, cfg models.SurveyConfig) error
	NotifyEmployeeRegistered(ctx context.Context, employee *models.Employee) error
	NotifyEmployeeRemoved(ctx context.Context, employeeID string) error
}

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *notificationEventService) NotifyAssessmentCompleted(ctx context.Context, employeeID string, result *models.ScoreResult, at time.Time) error {
	s.logger.Info("Publishing assessment completed event",
		"employee_id", employeeID,
		"score", result.Score,
		"risk", result.Risk)
	return s.publish(ctx, events.NewAssessmentCompletedEvent(employeeID, result, at))
}

func (s *notificationEventService) NotifyHighRisk(ctx context.Context, employee *models.Employee, score int) error {
	s.logger.Info("Publishing high risk event", "employee_id", employee.Email, "score", score)
	return s.publish(ctx, events.NewHighRiskEvent(employee, score))
}

func (s *notificationEventService) NotifyFeedbackSent(ctx context.Context, feedback *models.Feedback) error {
	s.logger.Info("Publishing feedback sent event",
		"feedback_id", feedback.ID,
		"employee_id", feedback.EmployeeID)
	return s.publish(ctx, events.NewFeedbackSentEvent(feedback))
}

func (s *notificationEventService) NotifySurveyScheduled(ctx context.Context, employeeID string, cfg models.SurveyConfig) error {
	s.logger.Info("Publishing survey scheduled event",
		"employee_id", employeeID,
		"scheduled_date", cfg.ScheduledDate)
	return s.publish(ctx, events.NewSurveyScheduledEvent(employeeID, cfg))
}

func (s *notificationEventService) NotifyEmployeeRegistered(ctx context.Context, employee *models.Employee) error {
	return s.publish(ctx, events.NewEmployeeRegisteredEvent(employee))
}

func (s *notificationEventService) NotifyEmployeeRemoved(ctx context.Context, employeeID string) error {
	return s.publish(ctx, events.NewEmployeeRemovedEvent(employeeID))
}

func (s *notificationEventService) publish(ctx context.Context, event *events.NotificationEvent) error {
	if err := s.eventPublisher.PublishNotificationEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
