package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
	"github.com/happynation/wellbeing-service/internal/validator"
)

type SurveyHandler struct {
	BaseHandler
	surveyService   services.SurveyService
	sessionService  services.SessionService
	employeeService services.EmployeeService
	validator       *validator.Validator
}

func NewSurveyHandler(
	surveyService services.SurveyService,
	sessionService services.SessionService,
	employeeService services.EmployeeService,
	validator *validator.Validator,
	logger utils.Logger,
) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:     NewBaseHandler(logger),
		surveyService:   surveyService,
		sessionService:  sessionService,
		employeeService: employeeService,
		validator:       validator,
	}
}

// SubmitSurveyRequest carries the answers keyed by question id. Profile is
// only read for callers without an employee token or session profile.
type SubmitSurveyRequest struct {
	Answers models.AnswerSet                  `json:"answers" binding:"required"`
	Profile *services.AnonymousProfileRequest `json:"profile,omitempty"`
}

// ListQuestions returns the questions currently shown to survey takers
// @Summary List active questions
// @Tags survey
// @Produce json
// @Success 200 {array} models.Question
// @Router /questions [get]
func (h *SurveyHandler) ListQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.surveyService.Questions(c.Request.Context()))
}

// Submit scores a completed survey
// @Summary Submit survey answers
// @Description Scores the answers once. Results for signed-in employees are added to their history.
// @Tags survey
// @Accept json
// @Produce json
// @Param submission body SubmitSurveyRequest true "Answers keyed by question id"
// @Success 200 {object} services.Submission
// @Failure 400 {object} ErrorResponse
// @Router /surveys/submit [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.resolveProfile(c, req.Profile)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Submitting survey", "answers", len(req.Answers))

	submission, err := h.surveyService.Submit(c.Request.Context(), profile, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// resolveProfile picks who the survey is for: the signed-in employee, then
// the session's anonymous profile, then the profile in the body. With none of
// those the survey is scored without a profile.
func (h *SurveyHandler) resolveProfile(c *gin.Context, fromBody *services.AnonymousProfileRequest) (models.Profile, error) {
	ctx := c.Request.Context()

	if auth.CurrentRole(c) == models.RoleEmployee {
		employee, err := h.employeeService.Get(ctx, auth.CurrentUserID(c))
		if err != nil {
			return nil, err
		}
		return models.EmployeeProfile{Employee: employee}, nil
	}

	if sessionID := auth.CurrentSessionID(c); sessionID != "" {
		state, err := h.sessionService.Get(ctx, sessionID)
		if err == nil && state.Profile != nil {
			return state.Profile, nil
		}
		if err != nil && !services.IsNotFound(err) {
			h.LogWarn(c, "Session lookup failed, scoring without it", "error", err.Error())
		}
	}

	if fromBody != nil {
		if err := h.validator.ValidateStruct(fromBody); err != nil {
			return nil, err
		}
		return fromBody.Profile(), nil
	}

	h.LogDebug(c, "Scoring without a profile")
	return nil, nil
}
