package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
)

// MeHandler serves the signed-in employee's own data
type MeHandler struct {
	BaseHandler
	employeeService services.EmployeeService
	historyService  services.HistoryService
	feedbackService services.FeedbackService
	reportService   services.ReportService
	uploadService   services.UploadService
}

func NewMeHandler(sm services.ServiceManager, logger utils.Logger) *MeHandler {
	return &MeHandler{
		BaseHandler:     NewBaseHandler(logger),
		employeeService: sm.Employee(),
		historyService:  sm.History(),
		feedbackService: sm.Feedback(),
		reportService:   sm.Report(),
		uploadService:   sm.Upload(),
	}
}

// GetHistory returns the caller's results inside the history window
// @Summary My assessment history
// @Tags me
// @Produce json
// @Success 200 {array} models.Assessment
// @Router /me/history [get]
func (h *MeHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.historyService.Recent(c.Request.Context(), auth.CurrentUserID(c)))
}

// ListFeedback returns feedback HR sent to the caller, newest first
// @Summary My feedback
// @Tags me
// @Produce json
// @Success 200 {array} models.Feedback
// @Router /me/feedback [get]
func (h *MeHandler) ListFeedback(c *gin.Context) {
	feedback, err := h.feedbackService.List(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// MarkFeedbackRead flags one feedback message as read
// @Summary Mark feedback read
// @Tags me
// @Param id path uint true "Feedback ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /me/feedback/{id}/read [patch]
func (h *MeHandler) MarkFeedbackRead(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.feedbackService.MarkRead(c.Request.Context(), auth.CurrentUserID(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteFeedback removes one feedback message
// @Summary Delete feedback
// @Tags me
// @Param id path uint true "Feedback ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /me/feedback/{id} [delete]
func (h *MeHandler) DeleteFeedback(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.feedbackService.Delete(c.Request.Context(), auth.CurrentUserID(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProfile returns the caller's employee record
// @Summary My profile
// @Tags me
// @Produce json
// @Success 200 {object} models.Employee
// @Router /me/profile [get]
func (h *MeHandler) GetProfile(c *gin.Context) {
	employee, err := h.employeeService.Get(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// UpdateProfile edits the caller's name, role, age or picture
// @Summary Update my profile
// @Tags me
// @Accept json
// @Produce json
// @Param profile body services.ProfileUpdateRequest true "Fields to change"
// @Success 200 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Router /me/profile [put]
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	employee, err := h.employeeService.UpdateProfile(c.Request.Context(), auth.CurrentUserID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// UploadAvatar stores a new profile picture
// @Summary Upload my avatar
// @Tags me
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image (jpeg, png, gif or webp, up to 5 MiB)"
// @Success 200 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /me/avatar [post]
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	img, file, ok := readImage(c)
	if !ok {
		return
	}
	defer file.Close()

	h.LogRequest(c, "Uploading avatar", "filename", img.Filename, "size", img.Size)

	employee, err := h.uploadService.UploadEmployeeAvatar(c.Request.Context(), auth.CurrentUserID(c), img)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// GetReport renders the caller's Daily, Weekly or Monthly report
// @Summary My report
// @Tags me
// @Produce html
// @Param type query string false "Daily, Weekly or Monthly" default(Daily)
// @Param format query string false "html or json" default(html)
// @Success 200 {object} services.Report
// @Failure 400 {object} ErrorResponse
// @Router /me/report [get]
func (h *MeHandler) GetReport(c *gin.Context) {
	serveReport(&h.BaseHandler, c, h.reportService, auth.CurrentUserID(c))
}

// serveReport builds a report for employeeID and writes it as HTML, or as
// JSON when format=json.
func serveReport(h *BaseHandler, c *gin.Context, reports services.ReportService, employeeID string) {
	reportType := parseReportType(c.DefaultQuery("type", string(services.ReportDaily)))

	report, err := reports.Build(c.Request.Context(), employeeID, reportType)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "json") {
		c.JSON(http.StatusOK, report)
		return
	}

	var buf bytes.Buffer
	if err := reports.Render(&buf, report); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// parseReportType accepts any casing of Daily, Weekly or Monthly.
func parseReportType(raw string) services.ReportType {
	return services.ReportType(titleCase(raw))
}
