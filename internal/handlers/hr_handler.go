package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/auth"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// HRHandler serves the HR dashboard: analytics, notifications, exports and
// the admin's own profile
type HRHandler struct {
	BaseHandler
	analyticsService    services.AnalyticsService
	notificationService services.NotificationService
	importExportService services.ImportExportService
	authService         services.AuthService
	uploadService       services.UploadService
}

func NewHRHandler(sm services.ServiceManager, logger utils.Logger) *HRHandler {
	return &HRHandler{
		BaseHandler:         NewBaseHandler(logger),
		analyticsService:    sm.Analytics(),
		notificationService: sm.Notification(),
		importExportService: sm.ImportExport(),
		authService:         sm.Auth(),
		uploadService:       sm.Upload(),
	}
}

// ===== ANALYTICS =====

// GetRiskDistribution returns the share of employees per risk tier
// @Summary Risk distribution
// @Tags analytics
// @Produce json
// @Success 200 {array} services.RiskShare
// @Router /hr/analytics/risk-distribution [get]
func (h *HRHandler) GetRiskDistribution(c *gin.Context) {
	shares, err := h.analyticsService.RiskDistribution(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, shares)
}

// GetRoleAverages returns average scores per job title
// @Summary Role averages
// @Tags analytics
// @Produce json
// @Success 200 {array} services.RoleAverage
// @Router /hr/analytics/roles [get]
func (h *HRHandler) GetRoleAverages(c *gin.Context) {
	roles, err := h.analyticsService.RoleAverages(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

// GetDashboard returns the combined HR overview
// @Summary HR dashboard
// @Tags analytics
// @Produce json
// @Success 200 {object} services.Dashboard
// @Router /hr/analytics/dashboard [get]
func (h *HRHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ===== NOTIFICATIONS =====

// ListNotifications returns HR notifications, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param type query string false "alert, assessment, feedback or employee"
// @Param employee_id query string false "Only notifications about this employee"
// @Param unread query bool false "Only unread"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} services.NotificationPage
// @Router /hr/notifications [get]
func (h *HRHandler) ListNotifications(c *gin.Context) {
	page, err := h.notificationService.List(c.Request.Context(), h.parseNotificationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// MarkNotificationRead flags a notification as read
// @Summary Mark notification read
// @Tags notifications
// @Param id path uint true "Notification ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /hr/notifications/{id}/read [patch]
func (h *HRHandler) MarkNotificationRead(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteNotification removes a notification
// @Summary Delete notification
// @Tags notifications
// @Param id path uint true "Notification ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /hr/notifications/{id} [delete]
func (h *HRHandler) DeleteNotification(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== PROFILE =====

// GetProfile returns the signed-in admin
// @Summary HR profile
// @Tags hr
// @Produce json
// @Success 200 {object} models.Admin
// @Router /hr/profile [get]
func (h *HRHandler) GetProfile(c *gin.Context) {
	admin, err := h.authService.AdminProfile(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// UpdateProfile edits the signed-in admin
// @Summary Update HR profile
// @Tags hr
// @Accept json
// @Produce json
// @Param profile body services.AdminProfileRequest true "Fields to change"
// @Success 200 {object} models.Admin
// @Failure 400 {object} ErrorResponse
// @Router /hr/profile [put]
func (h *HRHandler) UpdateProfile(c *gin.Context) {
	var req services.AdminProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	admin, err := h.authService.UpdateAdminProfile(c.Request.Context(), auth.CurrentUserID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// UploadAvatar stores a new picture for the signed-in admin
// @Summary Upload HR avatar
// @Tags hr
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image (jpeg, png, gif or webp, up to 5 MiB)"
// @Success 200 {object} models.Admin
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /hr/avatar [post]
func (h *HRHandler) UploadAvatar(c *gin.Context) {
	img, file, ok := readImage(c)
	if !ok {
		return
	}
	defer file.Close()

	admin, err := h.uploadService.UploadAdminAvatar(c.Request.Context(), auth.CurrentUserID(c), img)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// ===== EXPORTS =====

// ExportEmployeesExcel downloads the roster and history as a workbook
// @Summary Export employees to Excel
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param employee_id query string false "Limit the history sheet to one employee"
// @Success 200 {file} file
// @Router /hr/export/employees.xlsx [get]
func (h *HRHandler) ExportEmployeesExcel(c *gin.Context) {
	h.LogRequest(c, "Exporting employees", "format", "xlsx")

	data, err := h.importExportService.ExportEmployeesToExcel(c.Request.Context(), c.Query("employee_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportEmployeesCSV downloads the roster as CSV
// @Summary Export employees to CSV
// @Tags exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /hr/export/employees.csv [get]
func (h *HRHandler) ExportEmployeesCSV(c *gin.Context) {
	h.LogRequest(c, "Exporting employees", "format", "csv")

	data, err := h.importExportService.ExportEmployeesToCSV(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="employees.csv"`)
	c.Data(http.StatusOK, csvContentType, data)
}

func (h *HRHandler) parseNotificationFilters(c *gin.Context) repositories.NotificationFilters {
	limit, offset := parsePaging(c)
	filters := repositories.NotificationFilters{
		Limit:  limit,
		Offset: offset,
	}

	if notificationType := c.Query("type"); notificationType != "" {
		nType := models.NotificationType(notificationType)
		filters.Type = &nType
	}

	if employeeID := c.Query("employee_id"); employeeID != "" {
		filters.EmployeeID = &employeeID
	}

	if unread, err := strconv.ParseBool(c.Query("unread")); err == nil {
		filters.UnreadOnly = unread
	}

	return filters
}
