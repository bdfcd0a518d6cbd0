package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
)

// EmployeeHandler serves HR management of employee accounts
type EmployeeHandler struct {
	BaseHandler
	employeeService services.EmployeeService
	feedbackService services.FeedbackService
	historyService  services.HistoryService
	reportService   services.ReportService
}

func NewEmployeeHandler(sm services.ServiceManager, logger utils.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		BaseHandler:     NewBaseHandler(logger),
		employeeService: sm.Employee(),
		feedbackService: sm.Feedback(),
		historyService:  sm.History(),
		reportService:   sm.Report(),
	}
}

// CreateEmployee registers a new employee account
// @Summary Create employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body services.CreateEmployeeRequest true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hr/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	h.LogRequest(c, "Creating employee")

	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), &req, auth.CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// ListEmployees returns a filtered page of employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Param role query string false "Job title"
// @Param risk query string false "Low, Medium or High"
// @Param search query string false "Matches name or id"
// @Param sort_by query string false "name, created_at or email"
// @Param sort_order query string false "asc or desc"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} services.EmployeePage
// @Router /hr/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	page, err := h.employeeService.List(c.Request.Context(), h.parseEmployeeFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetEmployee returns one employee
// @Summary Get employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID (email)"
// @Success 200 {object} models.Employee
// @Failure 404 {object} ErrorResponse
// @Router /hr/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	employee, err := h.employeeService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee edits an employee. A new id moves the account.
// @Summary Update employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID (email)"
// @Param employee body services.UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} models.Employee
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /hr/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), id, &req, auth.CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee with their history and feedback
// @Summary Delete employee
// @Tags employees
// @Param id path string true "Employee ID (email)"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /hr/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), id, auth.CurrentUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveSurveyConfig stores the employee's survey schedule
// @Summary Save survey config
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID (email)"
// @Param config body services.SurveyConfigRequest true "Survey config"
// @Success 200 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Router /hr/employees/{id}/survey-config [put]
func (h *EmployeeHandler) SaveSurveyConfig(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SurveyConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	employee, err := h.employeeService.SaveSurveyConfig(c.Request.Context(), id, &req, auth.CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// SendFeedback sends a message to the employee
// @Summary Send feedback
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID (email)"
// @Param feedback body services.SendFeedbackRequest true "Message"
// @Success 201 {object} models.Feedback
// @Failure 404 {object} ErrorResponse
// @Router /hr/employees/{id}/feedback [post]
func (h *EmployeeHandler) SendFeedback(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SendFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	feedback, err := h.feedbackService.Send(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetHistory returns the employee's results inside the history window
// @Summary Employee history
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID (email)"
// @Success 200 {array} models.Assessment
// @Router /hr/employees/{id}/history [get]
func (h *EmployeeHandler) GetHistory(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	c.JSON(http.StatusOK, h.historyService.Recent(c.Request.Context(), id))
}

// GetReport renders the employee's report
// @Summary Employee report
// @Tags employees
// @Produce html
// @Param id path string true "Employee ID (email)"
// @Param type query string false "Daily, Weekly or Monthly" default(Daily)
// @Param format query string false "html or json" default(html)
// @Success 200 {object} services.Report
// @Router /hr/employees/{id}/report [get]
func (h *EmployeeHandler) GetReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	serveReport(&h.BaseHandler, c, h.reportService, id)
}

func (h *EmployeeHandler) parseEmployeeFilters(c *gin.Context) repositories.EmployeeFilters {
	limit, offset := parsePaging(c)
	filters := repositories.EmployeeFilters{
		Role:      c.Query("role"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     limit,
		Offset:    offset,
	}

	if risk := c.Query("risk"); risk != "" {
		filters.Risk = models.RiskTier(titleCase(risk))
	}

	return filters
}
