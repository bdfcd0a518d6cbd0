package services

import (
	"log/slog"
	"time"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/cache"
	"github.com/happynation/wellbeing-service/internal/events"
	"github.com/happynation/wellbeing-service/internal/imagehost"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/session"
	"github.com/happynation/wellbeing-service/internal/validator"
)

// ServiceManager exposes every service to the transport layer
type ServiceManager interface {
	Auth() AuthService
	Session() SessionService
	Survey() SurveyService
	Question() QuestionService
	History() HistoryService
	Employee() EmployeeService
	Feedback() FeedbackService
	Notification() NotificationService
	Analytics() AnalyticsService
	Report() ReportService
	ImportExport() ImportExportService
	Upload() UploadService
}

// Dependencies are the collaborators the services are built from. Cache,
// Uploader and SSO may be nil.
type Dependencies struct {
	Repo      repositories.Repository
	Resolver  ScoreResolver
	Publisher events.EventPublisher
	Cache     cache.CacheService
	Sessions  session.Store
	Tokens    *auth.TokenManager
	SSO       auth.SSOVerifier
	Uploader  imagehost.Uploader
	Validator *validator.Validator
	Logger    *slog.Logger

	HistoryWindow time.Duration
	AnalyticsTTL  time.Duration
}

type serviceManager struct {
	auth         AuthService
	session      SessionService
	survey       SurveyService
	question     QuestionService
	history      HistoryService
	employee     EmployeeService
	feedback     FeedbackService
	notification NotificationService
	analytics    AnalyticsService
	report       ReportService
	importExport ImportExportService
	upload       UploadService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	eventService := NewNotificationEventService(deps.Publisher, logger)
	notifications := NewNotificationService(deps.Repo, logger)
	analytics := NewAnalyticsService(deps.Repo, deps.Cache, logger, deps.AnalyticsTTL)
	questions := NewQuestionService(deps.Repo, logger, deps.Validator)
	history := NewHistoryService(deps.Repo, logger, deps.HistoryWindow)
	sessions := NewSessionService(deps.Sessions, deps.Validator, logger)
	employees := NewEmployeeService(deps.Repo, notifications, eventService, analytics, deps.Validator, logger)
	authService := NewAuthService(deps.Repo, deps.Tokens, sessions, deps.SSO, deps.Validator, logger)

	return &serviceManager{
		auth:         authService,
		session:      sessions,
		survey:       NewSurveyService(deps.Repo, questions, history, deps.Resolver, notifications, eventService, analytics, deps.Validator, logger),
		question:     questions,
		history:      history,
		employee:     employees,
		feedback:     NewFeedbackService(deps.Repo, eventService, deps.Validator, logger),
		notification: notifications,
		analytics:    analytics,
		report:       NewReportService(employees, history, logger),
		importExport: NewImportExportService(deps.Repo, questions, history, logger, deps.Validator),
		upload:       NewUploadService(deps.Uploader, employees, authService, logger),
	}
}

func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) Session() SessionService           { return m.session }
func (m *serviceManager) Survey() SurveyService             { return m.survey }
func (m *serviceManager) Question() QuestionService         { return m.question }
func (m *serviceManager) History() HistoryService           { return m.history }
func (m *serviceManager) Employee() EmployeeService         { return m.employee }
func (m *serviceManager) Feedback() FeedbackService         { return m.feedback }
func (m *serviceManager) Notification() NotificationService { return m.notification }
func (m *serviceManager) Analytics() AnalyticsService       { return m.analytics }
func (m *serviceManager) Report() ReportService             { return m.report }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
func (m *serviceManager) Upload() UploadService             { return m.upload }
