package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

type SSOLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// EmployeeLogin signs an employee in
// @Summary Employee login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Employee ID (email) and password"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/employee/login [post]
func (h *AuthHandler) EmployeeLogin(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Employee login", "employee_id", req.Email)

	result, err := h.authService.EmployeeLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HRLogin signs an HR admin in
// @Summary HR login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Admin email and password"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} ErrorResponse
// @Router /auth/hr/login [post]
func (h *AuthHandler) HRLogin(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "HR login", "email", req.Email)

	result, err := h.authService.HRLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SSOLogin exchanges an identity-provider token for a session
// @Summary HR single sign-on
// @Tags auth
// @Accept json
// @Produce json
// @Param token body SSOLoginRequest true "Identity provider token"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /auth/hr/sso [post]
func (h *AuthHandler) SSOLogin(c *gin.Context) {
	var req SSOLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.authService.SSOLogin(c.Request.Context(), req.Token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// StartGuest opens a session for someone taking the survey without an account
// @Summary Start guest session
// @Tags session
// @Produce json
// @Success 201 {object} services.LoginResult
// @Router /session [post]
func (h *AuthHandler) StartGuest(c *gin.Context) {
	result, err := h.authService.StartGuest(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Logout ends the caller's session
// @Summary Logout
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), auth.CurrentSessionID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
