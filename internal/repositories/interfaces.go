package repositories

import (
	"context"
	"time"

	"github.com/happynation/wellbeing-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type EmployeeFilters struct {
	Role      string          `json:"role"`
	Risk      models.RiskTier `json:"risk"`
	Search    string          `json:"search"`
	Limit     int             `json:"limit"`
	Offset    int             `json:"offset"`
	SortBy    string          `json:"sort_by"`    // "name", "created_at", "email"
	SortOrder string          `json:"sort_order"` // "asc", "desc"
}

type NotificationFilters struct {
	EmployeeID *string                  `json:"employee_id"`
	Type       *models.NotificationType `json:"type"`
	UnreadOnly bool                     `json:"unread_only"`
	Limit      int                      `json:"limit"`
	Offset     int                      `json:"offset"`
}

// Repository groups the per-collection repositories and transactions.
type Repository interface {
	Employee() EmployeeRepository
	Admin() AdminRepository
	Question() QuestionRepository
	Assessment() AssessmentRepository
	Feedback() FeedbackRepository
	Notification() NotificationRepository

	// WithTransaction runs fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context, filters EmployeeFilters) ([]*models.Employee, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	UpdateLastAssessment(ctx context.Context, email string, last models.LastAssessment) error
	UpdateSurveyConfig(ctx context.Context, email string, cfg models.SurveyConfig) error
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type QuestionRepository interface {
	List(ctx context.Context, includeHidden bool) ([]models.Question, error)
	GetByID(ctx context.Context, id int) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id int) error
	SetHidden(ctx context.Context, id int, hidden bool) error
	MaxID(ctx context.Context) (int, error)
	// Seed inserts the given questions, skipping ids that already exist.
	Seed(ctx context.Context, questions []models.Question) error
}

type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	// ListByUser returns every stored result for userID, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Assessment, error)
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Assessment, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID string) error
	ReassignUser(ctx context.Context, oldUserID, newUserID string) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	// ListByEmployee returns feedback newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.Feedback, error)
	MarkRead(ctx context.Context, id uint, employeeID string) error
	Delete(ctx context.Context, id uint, employeeID string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// List returns notifications newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}
