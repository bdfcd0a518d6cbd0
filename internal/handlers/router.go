package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
	"github.com/happynation/wellbeing-service/internal/validator"
)

const healthTimeout = 2 * time.Second

// HealthFunc reports whether a backing store is reachable.
type HealthFunc func(ctx context.Context) error

type HandlerManager struct {
	authHandler     *AuthHandler
	sessionHandler  *SessionHandler
	surveyHandler   *SurveyHandler
	meHandler       *MeHandler
	employeeHandler *EmployeeHandler
	questionHandler *QuestionHandler
	hrHandler       *HRHandler

	tokens   *auth.TokenManager
	sessions auth.SessionCheck
	health   HealthFunc
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	validator *validator.Validator,
	health HealthFunc,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		sessionHandler: NewSessionHandler(serviceManager.Session(), logger),
		surveyHandler: NewSurveyHandler(
			serviceManager.Survey(),
			serviceManager.Session(),
			serviceManager.Employee(),
			validator,
			logger,
		),
		meHandler:       NewMeHandler(serviceManager, logger),
		employeeHandler: NewEmployeeHandler(serviceManager, logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), serviceManager.ImportExport(), logger),
		hrHandler:       NewHRHandler(serviceManager, logger),
		tokens:          tokens,
		sessions:        serviceManager.Session().Active,
		health:          health,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/employee/login", hm.authHandler.EmployeeLogin)
			authRoutes.POST("/hr/login", hm.authHandler.HRLogin)
			authRoutes.POST("/hr/sso", hm.authHandler.SSOLogin)
			authRoutes.POST("/logout", auth.Authenticate(hm.tokens, hm.sessions), hm.authHandler.Logout)
		}

		// Survey routes. Anyone may take the survey; a token only decides
		// whose profile and history it is for.
		public := v1.Group("", auth.OptionalAuthenticate(hm.tokens, hm.sessions))
		{
			public.GET("/questions", hm.surveyHandler.ListQuestions)
			public.POST("/surveys/submit", hm.surveyHandler.Submit)
		}

		// Session routes
		v1.POST("/session", hm.authHandler.StartGuest)
		sessionRoutes := v1.Group("/session", auth.Authenticate(hm.tokens, hm.sessions))
		{
			sessionRoutes.GET("", hm.sessionHandler.GetSession)
			sessionRoutes.PUT("", hm.sessionHandler.SetProfile)
			sessionRoutes.PUT("/preferences", hm.sessionHandler.SetPreferences)
		}

		// Employee self-service routes
		me := v1.Group("/me", auth.Authenticate(hm.tokens, hm.sessions), auth.RequireRole(models.RoleEmployee))
		{
			me.GET("/history", hm.meHandler.GetHistory)
			me.GET("/feedback", hm.meHandler.ListFeedback)
			me.PATCH("/feedback/:id/read", hm.meHandler.MarkFeedbackRead)
			me.DELETE("/feedback/:id", hm.meHandler.DeleteFeedback)
			me.GET("/profile", hm.meHandler.GetProfile)
			me.PUT("/profile", hm.meHandler.UpdateProfile)
			me.POST("/avatar", hm.meHandler.UploadAvatar)
			me.GET("/report", hm.meHandler.GetReport)
		}

		// HR routes
		hr := v1.Group("/hr", auth.Authenticate(hm.tokens, hm.sessions), auth.RequireRole(models.RoleAdmin))
		{
			employees := hr.Group("/employees")
			{
				employees.POST("", hm.employeeHandler.CreateEmployee)
				employees.GET("", hm.employeeHandler.ListEmployees)
				employees.GET("/:id", hm.employeeHandler.GetEmployee)
				employees.PUT("/:id", hm.employeeHandler.UpdateEmployee)
				employees.DELETE("/:id", hm.employeeHandler.DeleteEmployee)
				employees.PUT("/:id/survey-config", hm.employeeHandler.SaveSurveyConfig)
				employees.POST("/:id/feedback", hm.employeeHandler.SendFeedback)
				employees.GET("/:id/history", hm.employeeHandler.GetHistory)
				employees.GET("/:id/report", hm.employeeHandler.GetReport)
			}

			questions := hr.Group("/questions")
			{
				questions.GET("", hm.questionHandler.ListQuestions)
				questions.POST("", hm.questionHandler.CreateQuestion)
				questions.POST("/import", hm.questionHandler.ImportQuestions)
				questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
				questions.PATCH("/:id/visibility", hm.questionHandler.ToggleHidden)
			}

			analytics := hr.Group("/analytics")
			{
				analytics.GET("/risk-distribution", hm.hrHandler.GetRiskDistribution)
				analytics.GET("/roles", hm.hrHandler.GetRoleAverages)
				analytics.GET("/dashboard", hm.hrHandler.GetDashboard)
			}

			notifications := hr.Group("/notifications")
			{
				notifications.GET("", hm.hrHandler.ListNotifications)
				notifications.PATCH("/:id/read", hm.hrHandler.MarkNotificationRead)
				notifications.DELETE("/:id", hm.hrHandler.DeleteNotification)
			}

			hr.GET("/export/employees.xlsx", hm.hrHandler.ExportEmployeesExcel)
			hr.GET("/export/employees.csv", hm.hrHandler.ExportEmployeesCSV)

			hr.GET("/profile", hm.hrHandler.GetProfile)
			hr.PUT("/profile", hm.hrHandler.UpdateProfile)
			hr.POST("/avatar", hm.hrHandler.UploadAvatar)
		}
	}
}

// HealthCheck reports whether the service and its database are reachable
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if hm.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := hm.health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "wellbeing-service",
				"error":   err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "wellbeing-service",
	})
}
