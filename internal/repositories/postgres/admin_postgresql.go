package postgres

import (
	"context"
	"fmt"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/gorm"
)

type AdminPostgreSQL struct {
	db *gorm.DB
}

func NewAdminPostgreSQL(db *gorm.DB) repositories.AdminRepository {
	return &AdminPostgreSQL{db: db}
}

func (a *AdminPostgreSQL) Create(ctx context.Context, admin *models.Admin) error {
	if err := a.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (a *AdminPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *AdminPostgreSQL) Update(ctx context.Context, admin *models.Admin) error {
	result := a.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", admin.Email).
		Select("name", "image", "password_hash", "updated_at").
		Updates(admin)
	if result.Error != nil {
		return fmt.Errorf("failed to update admin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *AdminPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
