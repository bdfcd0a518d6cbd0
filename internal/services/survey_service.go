package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/scoring"
	"github.com/happynation/wellbeing-service/internal/validator"
)

// ScoreResolver turns an answer set into a result. It must always return one.
type ScoreResolver interface {
	Resolve(ctx context.Context, req scoring.Request) *models.ScoreResult
}

// SurveyService collects answer sets and scores them
type SurveyService interface {
	Questions(ctx context.Context) []models.Question
	// Submit validates answers, scores them once, and for stored employees
	// appends the result to their history.
	Submit(ctx context.Context, profile models.Profile, answers models.AnswerSet) (*Submission, error)
}

type Submission struct {
	Result    *models.ScoreResult `json:"result"`
	Timestamp time.Time           `json:"timestamp"`
	// Saved is false for anonymous profiles and when the history write failed.
	Saved        bool `json:"saved"`
	AssessmentID uint `json:"assessment_id,omitempty"`
}

type surveyService struct {
	repo          repositories.Repository
	questions     QuestionService
	history       HistoryService
	resolver      ScoreResolver
	notifications NotificationService
	events        NotificationEventService
	analytics     AnalyticsService
	validator     *validator.Validator
	logger        *slog.Logger
	now           func() time.Time
}

func NewSurveyService(
	repo repositories.Repository,
	questions QuestionService,
	history HistoryService,
	resolver ScoreResolver,
	notifications NotificationService,
	eventService NotificationEventService,
	analytics AnalyticsService,
	validator *validator.Validator,
	logger *slog.Logger,
) SurveyService {
	return &surveyService{
		repo:          repo,
		questions:     questions,
		history:       history,
		resolver:      resolver,
		notifications: notifications,
		events:        eventService,
		analytics:     analytics,
		validator:     validator,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *surveyService) Questions(ctx context.Context) []models.Question {
	return s.questions.ListActive(ctx)
}

func (s *surveyService) Submit(ctx context.Context, profile models.Profile, answers models.AnswerSet) (*Submission, error) {
	questions := s.questions.ListActive(ctx)
	if errs := s.validator.Survey().ValidateAnswers(answers, questions, true); len(errs) > 0 {
		return nil, errs
	}
	answers = answers.Clone()

	employee, isEmployee := models.EmployeeOf(profile)

	req := scoring.Request{
		Questions: questions,
		Answers:   answers,
		Profile:   profile,
	}
	if isEmployee {
		req.PreviousScores = scoresOf(s.history.Recent(ctx, employee.Email))
	}

	result := s.resolver.Resolve(ctx, req)
	submission := &Submission{
		Result:    result,
		Timestamp: s.now().UTC(),
	}

	if !isEmployee {
		s.logger.InfoContext(ctx, "Scored anonymous submission", "score", result.Score, "risk", result.Risk)
		return submission, nil
	}

	if id, err := s.record(ctx, employee, answers, submission); err != nil {
		metrics.StoreFailure("save_assessment")
		s.logger.ErrorContext(ctx, "Failed to save assessment",
			"employee_id", employee.Email,
			"score", result.Score,
			"error", err)
	} else {
		submission.Saved = true
		submission.AssessmentID = id
	}

	s.afterSubmit(ctx, employee, submission)
	return submission, nil
}

// record appends the result and denormalises it onto the employee in one
// transaction.
func (s *surveyService) record(ctx context.Context, employee *models.Employee, answers models.AnswerSet, sub *Submission) (uint, error) {
	assessment := models.NewAssessment(employee.Email, answers, sub.Result, sub.Timestamp)
	metricsCopy := sub.Result.Metrics
	latest := models.LastAssessment{
		Score:   sub.Result.Score,
		Risk:    sub.Result.Risk,
		Date:    sub.Timestamp,
		Metrics: &metricsCopy,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Assessment().Create(ctx, assessment); err != nil {
			return fmt.Errorf("failed to append assessment: %w", err)
		}
		if err := tx.Employee().UpdateLastAssessment(ctx, employee.Email, latest); err != nil {
			return fmt.Errorf("failed to update last assessment: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	employee.SetLatest(latest)
	return assessment.ID, nil
}

func (s *surveyService) afterSubmit(ctx context.Context, employee *models.Employee, sub *Submission) {
	result := sub.Result

	if sub.Saved {
		s.analytics.Invalidate(ctx)
	}

	if err := s.events.NotifyAssessmentCompleted(ctx, employee.Email, result, sub.Timestamp); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish assessment event", "employee_id", employee.Email, "error", err)
	}

	if result.Risk != models.RiskHigh {
		return
	}
	s.notifications.Record(ctx, highRiskNotification(employee, result.Score))
	if err := s.events.NotifyHighRisk(ctx, employee, result.Score); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish high risk event", "employee_id", employee.Email, "error", err)
	}
}
