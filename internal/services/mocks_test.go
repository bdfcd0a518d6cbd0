package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/happynation/wellbeing-service/internal/cache"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/scoring"
)

// MockRepository hands out per-collection mocks; transactions run inline.
type MockRepository struct {
	employee     *MockEmployeeRepository
	admin        *MockAdminRepository
	question     *MockQuestionRepository
	assessment   *MockAssessmentRepository
	feedback     *MockFeedbackRepository
	notification *MockNotificationRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		employee:     &MockEmployeeRepository{},
		admin:        &MockAdminRepository{},
		question:     &MockQuestionRepository{},
		assessment:   &MockAssessmentRepository{},
		feedback:     &MockFeedbackRepository{},
		notification: &MockNotificationRepository{},
	}
}

func (m *MockRepository) Employee() repositories.EmployeeRepository         { return m.employee }
func (m *MockRepository) Admin() repositories.AdminRepository               { return m.admin }
func (m *MockRepository) Question() repositories.QuestionRepository         { return m.question }
func (m *MockRepository) Assessment() repositories.AssessmentRepository     { return m.assessment }
func (m *MockRepository) Feedback() repositories.FeedbackRepository         { return m.feedback }
func (m *MockRepository) Notification() repositories.NotificationRepository { return m.notification }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }

func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.employee.AssertExpectations(t)
	m.admin.AssertExpectations(t)
	m.question.AssertExpectations(t)
	m.assessment.AssertExpectations(t)
	m.feedback.AssertExpectations(t)
	m.notification.AssertExpectations(t)
}

// ===== EMPLOYEES =====

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockEmployeeRepository) List(ctx context.Context, filters repositories.EmployeeFilters) ([]*models.Employee, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *MockEmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeRepository) UpdateLastAssessment(ctx context.Context, email string, last models.LastAssessment) error {
	args := m.Called(ctx, email, last)
	return args.Error(0)
}

func (m *MockEmployeeRepository) UpdateSurveyConfig(ctx context.Context, email string, cfg models.SurveyConfig) error {
	args := m.Called(ctx, email, cfg)
	return args.Error(0)
}

// ===== ADMINS =====

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// ===== QUESTIONS =====

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) List(ctx context.Context, includeHidden bool) ([]models.Question, error) {
	args := m.Called(ctx, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id int) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) SetHidden(ctx context.Context, id int, hidden bool) error {
	args := m.Called(ctx, id, hidden)
	return args.Error(0)
}

func (m *MockQuestionRepository) MaxID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) Seed(ctx context.Context, questions []models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

// ===== ASSESSMENTS =====

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) ListByUser(ctx context.Context, userID string) ([]*models.Assessment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Assessment, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssessmentRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAssessmentRepository) ReassignUser(ctx context.Context, oldUserID, newUserID string) error {
	args := m.Called(ctx, oldUserID, newUserID)
	return args.Error(0)
}

// ===== FEEDBACK =====

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.Feedback, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) MarkRead(ctx context.Context, id uint, employeeID string) error {
	args := m.Called(ctx, id, employeeID)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id uint, employeeID string) error {
	args := m.Called(ctx, id, employeeID)
	return args.Error(0)
}

func (m *MockFeedbackRepository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	args := m.Called(ctx, employeeID)
	return args.Error(0)
}

// ===== NOTIFICATIONS =====

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ===== SCORING =====

// stubResolver returns a fixed result and records what it was asked.
type stubResolver struct {
	result   models.ScoreResult
	requests []scoring.Request
}

func (s *stubResolver) Resolve(ctx context.Context, req scoring.Request) *models.ScoreResult {
	s.requests = append(s.requests, req)
	out := s.result
	return &out
}

// ===== CACHE =====

// memCache is an in-process CacheService that keeps JSON like the Redis one.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = data
	c.mu.Unlock()
	return nil
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *memCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
	return nil
}

// ===== FIXTURES =====

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assessedEmployee(email, name, role string, score int, risk models.RiskTier, stress, satisfaction int, at time.Time) *models.Employee {
	e := &models.Employee{Email: email, Name: name, Role: role}
	e.SetLatest(models.LastAssessment{
		Score:   score,
		Risk:    risk,
		Date:    at,
		Metrics: &models.Metrics{Focus: 50, Stress: stress, Satisfaction: satisfaction},
	})
	return e
}
