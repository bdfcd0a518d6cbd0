package postgres

import (
	"context"
	"fmt"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) List(ctx context.Context, includeHidden bool) ([]models.Question, error) {
	query := q.db.WithContext(ctx).Order("id ASC")
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id int) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id int) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) SetHidden(ctx context.Context, id int, hidden bool) error {
	result := q.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Update("hidden", hidden)
	if result.Error != nil {
		return fmt.Errorf("failed to update question visibility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) MaxID(ctx context.Context) (int, error) {
	var maxID *int
	if err := q.db.WithContext(ctx).Model(&models.Question{}).Select("MAX(id)").Scan(&maxID).Error; err != nil {
		return 0, fmt.Errorf("failed to read max question id: %w", err)
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

func (q *QuestionPostgreSQL) Seed(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	err := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&questions).Error
	if err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}
	return nil
}
