package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/validator"
)

// FeedbackService carries messages from HR to individual employees
type FeedbackService interface {
	Send(ctx context.Context, employeeID string, req *SendFeedbackRequest) (*models.Feedback, error)
	// List returns the employee's feedback, newest first.
	List(ctx context.Context, employeeID string) ([]*models.Feedback, error)
	MarkRead(ctx context.Context, employeeID string, id uint) error
	Delete(ctx context.Context, employeeID string, id uint) error
}

type SendFeedbackRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type feedbackService struct {
	repo      repositories.Repository
	events    NotificationEventService
	validator *validator.Validator
	logger    *slog.Logger
	now       func() time.Time
}

func NewFeedbackService(repo repositories.Repository, eventService NotificationEventService, validator *validator.Validator, logger *slog.Logger) FeedbackService {
	return &feedbackService{
		repo:      repo,
		events:    eventService,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *feedbackService) Send(ctx context.Context, employeeID string, req *SendFeedbackRequest) (*models.Feedback, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	employeeID = normalizeEmail(employeeID)
	exists, err := s.repo.Employee().ExistsByEmail(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	feedback := &models.Feedback{
		EmployeeID: employeeID,
		Message:    req.Message,
		Date:       s.now().UTC(),
	}
	if err := s.repo.Feedback().Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to send feedback: %w", err)
	}

	if err := s.events.NotifyFeedbackSent(ctx, feedback); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish feedback event", "feedback_id", feedback.ID, "error", err)
	}
	return feedback, nil
}

func (s *feedbackService) List(ctx context.Context, employeeID string) ([]*models.Feedback, error) {
	employeeID = normalizeEmail(employeeID)
	items, err := s.repo.Feedback().ListByEmployee(ctx, employeeID)
	if err != nil {
		metrics.StoreFailure("list_feedback")
		s.logger.WarnContext(ctx, "Failed to load feedback", "employee_id", employeeID, "error", err)
		return []*models.Feedback{}, nil
	}
	return items, nil
}

func (s *feedbackService) MarkRead(ctx context.Context, employeeID string, id uint) error {
	if err := s.repo.Feedback().MarkRead(ctx, id, normalizeEmail(employeeID)); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to mark feedback read: %w", err)
	}
	return nil
}

// Delete removes one message. Employees can only delete their own.
func (s *feedbackService) Delete(ctx context.Context, employeeID string, id uint) error {
	if err := s.repo.Feedback().Delete(ctx, id, normalizeEmail(employeeID)); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}
