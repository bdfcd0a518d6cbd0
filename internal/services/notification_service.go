package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
)

// NotificationService manages the HR notification feed
type NotificationService interface {
	List(ctx context.Context, filters repositories.NotificationFilters) (*NotificationPage, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	// Record stores n. Failures are logged and swallowed: a notification is
	// never worth failing the operation that caused it.
	Record(ctx context.Context, n *models.Notification)
}

type NotificationPage struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
}

type notificationService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *notificationService) List(ctx context.Context, filters repositories.NotificationFilters) (*NotificationPage, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}

	items, total, err := s.repo.Notification().List(ctx, filters)
	if err != nil {
		metrics.StoreFailure("list_notifications")
		s.logger.WarnContext(ctx, "Failed to load notifications", "error", err)
		return &NotificationPage{Notifications: []*models.Notification{}}, nil
	}
	return &NotificationPage{Notifications: items, Total: total}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.repo.Notification().MarkRead(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Notification().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *notificationService) Record(ctx context.Context, n *models.Notification) {
	if n.Date.IsZero() {
		n.Date = s.now().UTC()
	}
	if err := s.repo.Notification().Create(ctx, n); err != nil {
		metrics.StoreFailure("create_notification")
		s.logger.WarnContext(ctx, "Failed to store notification", "type", n.Type, "error", err)
	}
}

// ===== MESSAGE BUILDERS =====

func highRiskNotification(employee *models.Employee, score int) *models.Notification {
	return &models.Notification{
		Type:       models.NotificationAlert,
		Message:    fmt.Sprintf("%s scored %d and is at high burnout risk.", employee.Name, score),
		EmployeeID: stringPtr(employee.Email),
		Image:      optionalString(employee.Image),
	}
}

func surveyScheduledNotification(employeeID string, scheduled string) *models.Notification {
	return &models.Notification{
		Type:       models.NotificationAlert,
		Message:    fmt.Sprintf("New survey scheduled for %s.", formatScheduledDate(scheduled)),
		EmployeeID: stringPtr(employeeID),
	}
}

func profileUpdatedNotification(employee *models.Employee) *models.Notification {
	return &models.Notification{
		Type:       models.NotificationEmployee,
		Message:    fmt.Sprintf("%s updated their profile details.", employee.Name),
		EmployeeID: stringPtr(employee.Email),
		Image:      optionalString(employee.Image),
	}
}

var scheduledDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// formatScheduledDate renders a stored schedule for humans. Unknown layouts
// are shown as given.
func formatScheduledDate(raw string) string {
	for _, layout := range scheduledDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			return t.Format("Jan 2, 2006")
		}
		return t.Format("Jan 2, 2006 3:04 PM")
	}
	return raw
}

func stringPtr(s string) *string {
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
