package postgres

import (
	"context"
	"fmt"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/gorm"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	query := n.db.WithContext(ctx).Model(&models.Notification{})
	if filters.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filters.EmployeeID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var items []*models.Notification
	if err := applyPagination(query.Order("date DESC"), filters.Limit, filters.Offset).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, total, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id uint) error {
	result := n.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := n.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
