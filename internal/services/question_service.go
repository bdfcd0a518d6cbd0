package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/validator"
)

// QuestionService manages the survey question bank
type QuestionService interface {
	// ListActive returns the visible questions in id order. It never fails:
	// an unreadable or empty bank yields the built-in defaults. A bank whose
	// questions are all hidden yields nothing.
	ListActive(ctx context.Context) []models.Question
	ListAll(ctx context.Context) ([]models.Question, error)
	Add(ctx context.Context, req *AddQuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, id int) error
	ToggleHidden(ctx context.Context, id int) (*models.Question, error)
	SeedDefaults(ctx context.Context) error
}

type AddQuestionRequest struct {
	Text     string `json:"text" validate:"required,min=5,max=500"`
	Category string `json:"category" validate:"omitempty,max=50"`
	Negative bool   `json:"negative"`
}

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionService) ListActive(ctx context.Context) []models.Question {
	questions, err := s.repo.Question().List(ctx, false)
	if err != nil {
		metrics.StoreFailure("list_questions")
		s.logger.WarnContext(ctx, "Failed to load question bank, serving defaults", "error", err)
		return models.DefaultQuestions()
	}
	if len(questions) > 0 {
		return questions
	}

	all, err := s.repo.Question().List(ctx, true)
	if err != nil {
		metrics.StoreFailure("list_questions")
		s.logger.WarnContext(ctx, "Failed to load question bank, serving defaults", "error", err)
		return models.DefaultQuestions()
	}
	if len(all) == 0 {
		return models.DefaultQuestions()
	}
	return []models.Question{}
}

func (s *questionService) ListAll(ctx context.Context) ([]models.Question, error) {
	questions, err := s.repo.Question().List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// Add appends a question with the next free id.
func (s *questionService) Add(ctx context.Context, req *AddQuestionRequest) (*models.Question, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var created *models.Question
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		maxID, err := tx.Question().MaxID(ctx)
		if err != nil {
			return fmt.Errorf("failed to read max question id: %w", err)
		}

		category := req.Category
		if category == "" {
			category = "custom"
		}
		id := maxID + 1
		created = &models.Question{
			ID:       id,
			Text:     req.Text,
			Category: category,
			Negative: req.Negative || models.IsDefaultNegative(id),
		}
		if err := tx.Question().Create(ctx, created); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Question added", "question_id", created.ID, "negative", created.Negative)
	return created, nil
}

func (s *questionService) Delete(ctx context.Context, id int) error {
	if _, err := s.getQuestion(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Question().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	s.logger.InfoContext(ctx, "Question deleted", "question_id", id)
	return nil
}

func (s *questionService) ToggleHidden(ctx context.Context, id int) (*models.Question, error) {
	question, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	question.Hidden = !question.Hidden
	if err := s.repo.Question().SetHidden(ctx, id, question.Hidden); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *questionService) SeedDefaults(ctx context.Context) error {
	if err := s.repo.Question().Seed(ctx, models.DefaultQuestions()); err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}
	return nil
}

func (s *questionService) getQuestion(ctx context.Context, id int) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}
