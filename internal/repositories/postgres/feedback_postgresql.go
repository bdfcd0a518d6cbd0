package postgres

import (
	"context"
	"fmt"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/gorm"
)

type FeedbackPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &FeedbackPostgreSQL{db: db}
}

func (f *FeedbackPostgreSQL) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := f.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (f *FeedbackPostgreSQL) ListByEmployee(ctx context.Context, employeeID string) ([]*models.Feedback, error) {
	var items []*models.Feedback
	if err := f.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, nil
}

func (f *FeedbackPostgreSQL) MarkRead(ctx context.Context, id uint, employeeID string) error {
	result := f.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark feedback read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (f *FeedbackPostgreSQL) Delete(ctx context.Context, id uint, employeeID string) error {
	result := f.db.WithContext(ctx).Where("id = ? AND employee_id = ?", id, employeeID).Delete(&models.Feedback{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (f *FeedbackPostgreSQL) DeleteByEmployee(ctx context.Context, employeeID string) error {
	if err := f.db.WithContext(ctx).Where("employee_id = ?", employeeID).Delete(&models.Feedback{}).Error; err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}
