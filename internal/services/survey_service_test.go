package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/happynation/wellbeing-service/internal/events"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/validator"
)

type surveyFixture struct {
	repo      *MockRepository
	resolver  *stubResolver
	publisher *events.MockEventPublisher
	service   SurveyService
}

func newSurveyFixture(result models.ScoreResult) *surveyFixture {
	repo := newMockRepository()
	logger := quietLogger()
	v := validator.New()
	resolver := &stubResolver{result: result}
	publisher := events.NewMockEventPublisher(logger)

	repo.question.On("List", mock.Anything, false).Return(models.DefaultQuestions()[:3], nil)

	service := NewSurveyService(
		repo,
		NewQuestionService(repo, logger, v),
		NewHistoryService(repo, logger, 0),
		resolver,
		NewNotificationService(repo, logger),
		NewNotificationEventService(publisher, logger),
		NewAnalyticsService(repo, nil, logger, 0),
		v,
		logger,
	)
	return &surveyFixture{repo: repo, resolver: resolver, publisher: publisher, service: service}
}

var mediumResult = models.ScoreResult{
	Score:   58,
	Risk:    models.RiskMedium,
	Metrics: models.Metrics{Focus: 60, Stress: 45, Satisfaction: 55},
	Summary: "Steady.",
	Source:  models.SourceFallback,
}

func TestSurveyService_SubmitAnonymous(t *testing.T) {
	f := newSurveyFixture(mediumResult)
	answers := models.AnswerSet{1: 3, 2: 4, 3: 5}

	sub, err := f.service.Submit(context.Background(), models.AnonymousProfile{Name: "Walk-in"}, answers)
	require.NoError(t, err)

	assert.False(t, sub.Saved)
	assert.Zero(t, sub.AssessmentID)
	assert.Equal(t, 58, sub.Result.Score)
	require.Len(t, f.resolver.requests, 1)
	assert.Nil(t, f.resolver.requests[0].PreviousScores)
	assert.Empty(t, f.publisher.GetPublishedEvents())
	f.repo.AssertExpectations(t)
}

func TestSurveyService_SubmitEmployeeSaves(t *testing.T) {
	f := newSurveyFixture(mediumResult)
	employee := &models.Employee{Email: "ann@corp.com", Name: "Ann"}

	f.repo.assessment.On("ListByUser", mock.Anything, "ann@corp.com").Return([]*models.Assessment{
		{ID: 1, UserID: "ann@corp.com", Score: 64, Timestamp: time.Now().Add(-2 * time.Hour)},
	}, nil)
	f.repo.assessment.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Assessment) bool {
		return a.UserID == "ann@corp.com" && a.Score == 58 && a.Answers.Data()[3] == 5
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Assessment).ID = 42
	}).Return(nil)
	f.repo.employee.On("UpdateLastAssessment", mock.Anything, "ann@corp.com", mock.MatchedBy(func(la models.LastAssessment) bool {
		return la.Score == 58 && la.Risk == models.RiskMedium && la.Metrics != nil
	})).Return(nil)

	sub, err := f.service.Submit(context.Background(), models.EmployeeProfile{Employee: employee}, models.AnswerSet{1: 3, 2: 4, 3: 5})
	require.NoError(t, err)

	assert.True(t, sub.Saved)
	assert.Equal(t, uint(42), sub.AssessmentID)
	assert.Equal(t, []int{64}, f.resolver.requests[0].PreviousScores)

	latest, ok := employee.Latest()
	require.True(t, ok)
	assert.Equal(t, 58, latest.Score)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAssessmentCompleted, published[0].Type)
	f.repo.AssertExpectations(t)
}

func TestSurveyService_SubmitHighRiskAlertsHR(t *testing.T) {
	high := mediumResult
	high.Score = 20
	high.Risk = models.RiskHigh
	f := newSurveyFixture(high)
	employee := &models.Employee{Email: "bo@corp.com", Name: "Bo"}

	f.repo.assessment.On("ListByUser", mock.Anything, "bo@corp.com").Return([]*models.Assessment{}, nil)
	f.repo.assessment.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repo.employee.On("UpdateLastAssessment", mock.Anything, "bo@corp.com", mock.Anything).Return(nil)
	f.repo.notification.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Type == models.NotificationAlert &&
			n.Message == "Bo scored 20 and is at high burnout risk." &&
			n.EmployeeID != nil && *n.EmployeeID == "bo@corp.com"
	})).Return(nil)

	_, err := f.service.Submit(context.Background(), models.EmployeeProfile{Employee: employee}, models.AnswerSet{1: 5, 2: 5, 3: 5})
	require.NoError(t, err)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventHighRiskDetected, published[1].Type)
	f.repo.AssertExpectations(t)
}

func TestSurveyService_SubmitSurvivesStoreFailure(t *testing.T) {
	f := newSurveyFixture(mediumResult)
	employee := &models.Employee{Email: "cy@corp.com", Name: "Cy"}

	f.repo.assessment.On("ListByUser", mock.Anything, "cy@corp.com").Return(nil, errors.New("db down"))
	f.repo.assessment.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	sub, err := f.service.Submit(context.Background(), models.EmployeeProfile{Employee: employee}, models.AnswerSet{1: 2, 2: 2, 3: 2})
	require.NoError(t, err)

	assert.False(t, sub.Saved)
	assert.Equal(t, 58, sub.Result.Score)
	assert.Empty(t, f.resolver.requests[0].PreviousScores)
	_, ok := employee.Latest()
	assert.False(t, ok)
	f.repo.employee.AssertNotCalled(t, "UpdateLastAssessment", mock.Anything, mock.Anything, mock.Anything)
}

func TestSurveyService_SubmitRejectsBadAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers models.AnswerSet
	}{
		{name: "empty", answers: models.AnswerSet{}},
		{name: "out of range", answers: models.AnswerSet{1: 6, 2: 3, 3: 3}},
		{name: "unknown question", answers: models.AnswerSet{1: 3, 2: 3, 3: 3, 99: 3}},
		{name: "missing question", answers: models.AnswerSet{1: 3, 2: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSurveyFixture(mediumResult)

			_, err := f.service.Submit(context.Background(), models.AnonymousProfile{Name: "X"}, tt.answers)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Empty(t, f.resolver.requests)
		})
	}
}

func TestSurveyService_SubmitDoesNotMutateAnswers(t *testing.T) {
	f := newSurveyFixture(mediumResult)
	answers := models.AnswerSet{1: 3, 2: 4, 3: 5}

	_, err := f.service.Submit(context.Background(), nil, answers)
	require.NoError(t, err)

	f.resolver.requests[0].Answers[1] = 1
	assert.Equal(t, 3, answers[1])
}
