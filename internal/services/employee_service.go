package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/validator"
	"gorm.io/datatypes"
)

// EmployeeService manages employee records for HR and for the employees
// themselves
type EmployeeService interface {
	Create(ctx context.Context, req *CreateEmployeeRequest, actor string) (*models.Employee, error)
	Get(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context, filters repositories.EmployeeFilters) (*EmployeePage, error)
	// Update applies HR edits. Changing the id (email) moves the record and
	// its history to the new key.
	Update(ctx context.Context, email string, req *UpdateEmployeeRequest, actor string) (*models.Employee, error)
	Delete(ctx context.Context, email string, actor string) error

	UpdateProfile(ctx context.Context, email string, req *ProfileUpdateRequest) (*models.Employee, error)
	SetImage(ctx context.Context, email, imageURL string) (*models.Employee, error)
	SaveSurveyConfig(ctx context.Context, email string, req *SurveyConfigRequest, actor string) (*models.Employee, error)
}

type CreateEmployeeRequest struct {
	Email    string `json:"id" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"omitempty,max=100"`
	Age      int    `json:"age" validate:"omitempty,min=16,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Image    string `json:"image" validate:"omitempty,url,max=500"`
}

type UpdateEmployeeRequest struct {
	Email    *string `json:"id" validate:"omitempty,email,max=255"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role" validate:"omitempty,max=100"`
	Age      *int    `json:"age" validate:"omitempty,min=16,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Image    *string `json:"image" validate:"omitempty,url,max=500"`
}

// ProfileUpdateRequest is what an employee may change about themselves.
type ProfileUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Role  *string `json:"role" validate:"omitempty,max=100"`
	Age   *int    `json:"age" validate:"omitempty,min=16,max=100"`
	Image *string `json:"image" validate:"omitempty,url,max=500"`
}

type SurveyConfigRequest struct {
	Frequency       models.SurveyFrequency `json:"frequency" validate:"required,survey_frequency"`
	QuestionCount   int                    `json:"question_count" validate:"min=1,max=50"`
	QuestionTypes   []string               `json:"question_types" validate:"omitempty,dive,max=50"`
	IsSurveyVisible bool                   `json:"is_survey_visible"`
	ScheduledDate   string                 `json:"scheduled_date" validate:"omitempty,max=40"`
}

func (r *SurveyConfigRequest) toModel() models.SurveyConfig {
	types := r.QuestionTypes
	if types == nil {
		types = []string{}
	}
	return models.SurveyConfig{
		Frequency:       r.Frequency,
		QuestionCount:   r.QuestionCount,
		QuestionTypes:   types,
		IsSurveyVisible: r.IsSurveyVisible,
		ScheduledDate:   strings.TrimSpace(r.ScheduledDate),
	}
}

type EmployeePage struct {
	Employees []*models.Employee `json:"employees"`
	Total     int64              `json:"total"`
}

type employeeService struct {
	repo          repositories.Repository
	notifications NotificationService
	events        NotificationEventService
	analytics     AnalyticsService
	validator     *validator.Validator
	logger        *slog.Logger
	ops           *ServiceLogger
}

func NewEmployeeService(
	repo repositories.Repository,
	notifications NotificationService,
	eventService NotificationEventService,
	analytics AnalyticsService,
	validator *validator.Validator,
	logger *slog.Logger,
) EmployeeService {
	return &employeeService{
		repo:          repo,
		notifications: notifications,
		events:        eventService,
		analytics:     analytics,
		validator:     validator,
		logger:        logger,
		ops:           NewServiceLogger(logger, "employee"),
	}
}

func (s *employeeService) Create(ctx context.Context, req *CreateEmployeeRequest, actor string) (employee *models.Employee, err error) {
	op := s.ops.WithOperation(ctx, "create_employee", actor)
	defer func() { op.LogResult(req.Email, err) }()

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Employee().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee: %w", err)
	}
	if exists {
		return nil, ErrEmployeeExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	employee = &models.Employee{
		Email:        req.Email,
		Name:         req.Name,
		Role:         strings.TrimSpace(req.Role),
		Age:          req.Age,
		Image:        req.Image,
		PasswordHash: hash,
		SurveyConfig: datatypes.NewJSONType(models.DefaultSurveyConfig()),
	}
	if err := s.repo.Employee().Create(ctx, employee); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmployeeExists
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	op.LogAudit(AuditEventCreate, employee.Email, nil)
	s.analytics.Invalidate(ctx)
	if err := s.events.NotifyEmployeeRegistered(ctx, employee); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish employee event", "employee_id", employee.Email, "error", err)
	}
	return employee, nil
}

func (s *employeeService) Get(ctx context.Context, email string) (*models.Employee, error) {
	return s.getEmployee(ctx, s.repo, normalizeEmail(email))
}

func (s *employeeService) List(ctx context.Context, filters repositories.EmployeeFilters) (*EmployeePage, error) {
	if filters.Limit < 0 || filters.Limit > 500 {
		filters.Limit = 500
	}
	employees, total, err := s.repo.Employee().List(ctx, filters)
	if err != nil {
		metrics.StoreFailure("list_employees")
		s.logger.WarnContext(ctx, "Failed to load employees", "error", err)
		return &EmployeePage{Employees: []*models.Employee{}}, nil
	}
	return &EmployeePage{Employees: employees, Total: total}, nil
}

func (s *employeeService) Update(ctx context.Context, email string, req *UpdateEmployeeRequest, actor string) (employee *models.Employee, err error) {
	email = normalizeEmail(email)
	op := s.ops.WithOperation(ctx, "update_employee", actor)
	defer func() { op.LogResult(email, err) }()

	if req.Email != nil {
		normalized := normalizeEmail(*req.Email)
		req.Email = &normalized
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		current, err := s.getEmployee(ctx, tx, email)
		if err != nil {
			return err
		}
		if err := applyEmployeeUpdate(current, req); err != nil {
			return err
		}

		if req.Email == nil || *req.Email == email {
			if err := tx.Employee().Update(ctx, current); err != nil {
				return fmt.Errorf("failed to update employee: %w", err)
			}
			employee = current
			return nil
		}

		employee, err = s.moveEmployee(ctx, tx, current, *req.Email)
		return err
	})
	if err != nil {
		return nil, err
	}

	op.LogAudit(AuditEventUpdate, employee.Email, map[string]interface{}{"previous_id": email})
	s.analytics.Invalidate(ctx)
	return employee, nil
}

// moveEmployee re-keys an employee: the new record is created, history is
// reassigned, and the old record with its feedback is removed.
func (s *employeeService) moveEmployee(ctx context.Context, tx repositories.Repository, current *models.Employee, newEmail string) (*models.Employee, error) {
	exists, err := tx.Employee().ExistsByEmail(ctx, newEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee: %w", err)
	}
	if exists {
		return nil, ErrEmployeeExists
	}

	oldEmail := current.Email
	moved := *current
	moved.Email = newEmail
	moved.CreatedAt = time.Time{}
	moved.UpdatedAt = time.Time{}

	if err := tx.Employee().Create(ctx, &moved); err != nil {
		return nil, fmt.Errorf("failed to create moved employee: %w", err)
	}
	if err := tx.Assessment().ReassignUser(ctx, oldEmail, newEmail); err != nil {
		return nil, fmt.Errorf("failed to reassign history: %w", err)
	}
	if err := tx.Feedback().DeleteByEmployee(ctx, oldEmail); err != nil {
		return nil, fmt.Errorf("failed to remove feedback: %w", err)
	}
	if err := tx.Employee().Delete(ctx, oldEmail); err != nil {
		return nil, fmt.Errorf("failed to remove old employee: %w", err)
	}
	return &moved, nil
}

func (s *employeeService) Delete(ctx context.Context, email string, actor string) (err error) {
	email = normalizeEmail(email)
	op := s.ops.WithOperation(ctx, "delete_employee", actor)
	defer func() { op.LogResult(email, err) }()

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := s.getEmployee(ctx, tx, email); err != nil {
			return err
		}
		if err := tx.Assessment().DeleteByUser(ctx, email); err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}
		if err := tx.Feedback().DeleteByEmployee(ctx, email); err != nil {
			return fmt.Errorf("failed to delete feedback: %w", err)
		}
		if err := tx.Employee().Delete(ctx, email); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	op.LogAudit(AuditEventDelete, email, nil)
	s.analytics.Invalidate(ctx)
	if err := s.events.NotifyEmployeeRemoved(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish employee event", "employee_id", email, "error", err)
	}
	return nil
}

func (s *employeeService) UpdateProfile(ctx context.Context, email string, req *ProfileUpdateRequest) (*models.Employee, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	employee, err := s.getEmployee(ctx, s.repo, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		employee.Role = strings.TrimSpace(*req.Role)
	}
	if req.Age != nil {
		employee.Age = *req.Age
	}
	if req.Image != nil {
		employee.Image = *req.Image
	}

	if err := s.repo.Employee().Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.notifications.Record(ctx, profileUpdatedNotification(employee))
	s.analytics.Invalidate(ctx)
	return employee, nil
}

func (s *employeeService) SetImage(ctx context.Context, email, imageURL string) (*models.Employee, error) {
	employee, err := s.getEmployee(ctx, s.repo, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	employee.Image = imageURL
	if err := s.repo.Employee().Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update image: %w", err)
	}
	s.notifications.Record(ctx, profileUpdatedNotification(employee))
	return employee, nil
}

// SaveSurveyConfig stores cfg. Hiding the survey with a scheduled date
// alerts HR and announces the schedule.
func (s *employeeService) SaveSurveyConfig(ctx context.Context, email string, req *SurveyConfigRequest, actor string) (employee *models.Employee, err error) {
	email = normalizeEmail(email)
	op := s.ops.WithOperation(ctx, "save_survey_config", actor)
	defer func() { op.LogResult(email, err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	cfg := req.toModel()

	if err := s.repo.Employee().UpdateSurveyConfig(ctx, email, cfg); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to save survey config: %w", err)
	}

	employee, err = s.getEmployee(ctx, s.repo, email)
	if err != nil {
		return nil, err
	}

	if !cfg.IsSurveyVisible && cfg.ScheduledDate != "" {
		s.notifications.Record(ctx, surveyScheduledNotification(email, cfg.ScheduledDate))
		if err := s.events.NotifySurveyScheduled(ctx, email, cfg); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish schedule event", "employee_id", email, "error", err)
		}
	}
	return employee, nil
}

// ===== HELPER METHODS =====

func (s *employeeService) getEmployee(ctx context.Context, repo repositories.Repository, email string) (*models.Employee, error) {
	employee, err := repo.Employee().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func applyEmployeeUpdate(employee *models.Employee, req *UpdateEmployeeRequest) error {
	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		employee.Role = strings.TrimSpace(*req.Role)
	}
	if req.Age != nil {
		employee.Age = *req.Age
	}
	if req.Image != nil {
		employee.Image = *req.Image
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		employee.PasswordHash = hash
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
