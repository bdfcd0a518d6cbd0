package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.Timestamp.IsZero() {
		assessment.Timestamp = time.Now().UTC()
	}
	if err := a.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.Assessment, error) {
	var assessments []*models.Assessment
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (a *AssessmentPostgreSQL) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Assessment, error) {
	var assessments []*models.Assessment
	if err := a.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp ASC").
		Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (a *AssessmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := a.db.WithContext(ctx).Delete(&models.Assessment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete assessment %d: %w", id, err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) DeleteByUser(ctx context.Context, userID string) error {
	if err := a.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Assessment{}).Error; err != nil {
		return fmt.Errorf("failed to delete assessments: %w", err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) ReassignUser(ctx context.Context, oldUserID, newUserID string) error {
	if err := a.db.WithContext(ctx).Model(&models.Assessment{}).
		Where("user_id = ?", oldUserID).
		Update("user_id", newUserID).Error; err != nil {
		return fmt.Errorf("failed to move assessments: %w", err)
	}
	return nil
}
