package postgres

import (
	"context"
	"fmt"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db           *gorm.DB
	employee     repositories.EmployeeRepository
	admin        repositories.AdminRepository
	question     repositories.QuestionRepository
	assessment   repositories.AssessmentRepository
	feedback     repositories.FeedbackRepository
	notification repositories.NotificationRepository
}

// NewRepository wires every gorm-backed repository to db.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:           db,
		employee:     NewEmployeePostgreSQL(db),
		admin:        NewAdminPostgreSQL(db),
		question:     NewQuestionPostgreSQL(db),
		assessment:   NewAssessmentPostgreSQL(db),
		feedback:     NewFeedbackPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *repository) Employee() repositories.EmployeeRepository         { return r.employee }
func (r *repository) Admin() repositories.AdminRepository               { return r.admin }
func (r *repository) Question() repositories.QuestionRepository         { return r.question }
func (r *repository) Assessment() repositories.AssessmentRepository     { return r.assessment }
func (r *repository) Feedback() repositories.FeedbackRepository         { return r.feedback }
func (r *repository) Notification() repositories.NotificationRepository { return r.notification }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Employee{},
		&models.Admin{},
		&models.Question{},
		&models.Assessment{},
		&models.Feedback{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
