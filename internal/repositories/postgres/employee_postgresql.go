package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EmployeePostgreSQL struct {
	db *gorm.DB
}

func NewEmployeePostgreSQL(db *gorm.DB) repositories.EmployeeRepository {
	return &EmployeePostgreSQL{db: db}
}

func (e *EmployeePostgreSQL) Create(ctx context.Context, employee *models.Employee) error {
	if err := e.db.WithContext(ctx).Create(employee).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (e *EmployeePostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	if err := e.db.WithContext(ctx).Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// Update overwrites every column, last write wins.
func (e *EmployeePostgreSQL) Update(ctx context.Context, employee *models.Employee) error {
	result := e.db.WithContext(ctx).Model(&models.Employee{}).
		Where("email = ?", employee.Email).
		Select("*").Omit("email", "created_at").
		Updates(employee)
	if result.Error != nil {
		return fmt.Errorf("failed to update employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EmployeePostgreSQL) Delete(ctx context.Context, email string) error {
	result := e.db.WithContext(ctx).Where("email = ?", email).Delete(&models.Employee{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (e *EmployeePostgreSQL) List(ctx context.Context, filters repositories.EmployeeFilters) ([]*models.Employee, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Employee{})

	if filters.Role != "" {
		query = query.Where("role = ?", filters.Role)
	}
	if filters.Risk != "" {
		query = query.Where("last_assessment->>'risk' = ?", string(filters.Risk))
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query = query.Order(employeeOrder(filters.SortBy, filters.SortOrder))
	query = applyPagination(query, filters.Limit, filters.Offset)

	var employees []*models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

func employeeOrder(sortBy, sortOrder string) string {
	column := "name"
	switch sortBy {
	case "created_at", "email", "role":
		column = sortBy
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	return column + " " + direction
}

func (e *EmployeePostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := e.db.WithContext(ctx).Model(&models.Employee{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (e *EmployeePostgreSQL) UpdateLastAssessment(ctx context.Context, email string, last models.LastAssessment) error {
	return e.updateColumn(ctx, email, "last_assessment", datatypes.NewJSONType(last))
}

func (e *EmployeePostgreSQL) UpdateSurveyConfig(ctx context.Context, email string, cfg models.SurveyConfig) error {
	return e.updateColumn(ctx, email, "survey_config", datatypes.NewJSONType(cfg))
}

func (e *EmployeePostgreSQL) updateColumn(ctx context.Context, email, column string, value interface{}) error {
	result := e.db.WithContext(ctx).Model(&models.Employee{}).Where("email = ?", email).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
