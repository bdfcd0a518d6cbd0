package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/services"
	"github.com/happynation/wellbeing-service/internal/utils"
)

// QuestionHandler serves HR management of the question bank
type QuestionHandler struct {
	BaseHandler
	questionService     services.QuestionService
	importExportService services.ImportExportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:         NewBaseHandler(logger),
		questionService:     questionService,
		importExportService: importExportService,
	}
}

// ListQuestions returns every question including hidden ones
// @Summary List all questions
// @Tags questions
// @Produce json
// @Success 200 {array} models.Question
// @Failure 500 {object} ErrorResponse
// @Router /hr/questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.ListAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// CreateQuestion adds a question with the next free id
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.AddQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Router /hr/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.questionService.Add(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// DeleteQuestion removes a question
// @Summary Delete question
// @Tags questions
// @Param id path int true "Question ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /hr/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := ParseIntIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleHidden flips whether survey takers see a question
// @Summary Toggle question visibility
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /hr/questions/{id}/visibility [patch]
func (h *QuestionHandler) ToggleHidden(c *gin.Context) {
	id := ParseIntIDParam(c, "id")
	if id == 0 {
		return
	}

	question, err := h.questionService.ToggleHidden(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ImportQuestions loads questions from an uploaded workbook
// @Summary Import questions from Excel
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook"
// @Success 200 {object} SuccessResponse{data=services.ImportResult}
// @Failure 400 {object} ErrorResponse
// @Router /hr/questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", nil, err.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "filename", header.Filename, "size", header.Size)

	result, err := h.importExportService.ImportQuestionsFromExcel(c.Request.Context(), file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions imported", result,
		"imported", result.SuccessCount, "rejected", result.ErrorCount)
}
