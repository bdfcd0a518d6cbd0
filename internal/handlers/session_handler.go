package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
)

// SessionHandler exposes the per-session application state
type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// GetSession returns who the current survey is for and display preferences
// @Summary Get session state
// @Tags session
// @Produce json
// @Success 200 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	state, err := h.sessionService.Get(c.Request.Context(), auth.CurrentSessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSessionView(state))
}

// SetProfile records an anonymous survey taker's details
// @Summary Set anonymous profile
// @Tags session
// @Accept json
// @Produce json
// @Param profile body services.AnonymousProfileRequest true "Profile"
// @Success 200 {object} services.SessionView
// @Failure 422 {object} ErrorResponse
// @Router /session [put]
func (h *SessionHandler) SetProfile(c *gin.Context) {
	var req services.AnonymousProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.sessionService.SetAnonymousProfile(c.Request.Context(), auth.CurrentSessionID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSessionView(state))
}

// SetPreferences updates display preferences
// @Summary Set preferences
// @Tags session
// @Accept json
// @Produce json
// @Param preferences body services.PreferencesRequest true "Preferences"
// @Success 200 {object} services.SessionView
// @Router /session/preferences [put]
func (h *SessionHandler) SetPreferences(c *gin.Context) {
	var req services.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	state, err := h.sessionService.SetPreferences(c.Request.Context(), auth.CurrentSessionID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSessionView(state))
}
