package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	employeesSheet = "Employees"
	historySheet   = "History"
)

var employeeExportHeaders = []string{
	"Employee ID", "Name", "Role", "Age", "Last Score", "Risk",
	"Focus", "Stress", "Satisfaction", "Last Assessed", "Survey Frequency", "Survey Visible",
}

var historyExportHeaders = []string{
	"Employee ID", "Date", "Score", "Risk", "Focus", "Stress", "Satisfaction", "Source",
}

// ImportExportService moves HR data in and out of spreadsheets
type ImportExportService interface {
	// ExportEmployeesToExcel writes the roster and recent history. A non-empty
	// employeeID limits the history sheet to that employee.
	ExportEmployeesToExcel(ctx context.Context, employeeID string) ([]byte, error)
	ExportEmployeesToCSV(ctx context.Context) ([]byte, error)
	// ImportQuestionsFromExcel appends questions from the first sheet. Rows
	// that fail validation are reported and skipped.
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

type ImportResult struct {
	TotalRows    int                `json:"total_rows"`
	SuccessCount int                `json:"success_count"`
	ErrorCount   int                `json:"error_count"`
	Errors       []ImportRowError   `json:"errors"`
	Questions    []*models.Question `json:"questions"`
}

type importExportService struct {
	repo      repositories.Repository
	questions QuestionService
	history   HistoryService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, questions QuestionService, history HistoryService, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		questions: questions,
		history:   history,
		logger:    logger,
		validator: validator,
	}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportEmployeesToExcel(ctx context.Context, employeeID string) ([]byte, error) {
	employees, err := s.employeesForExport(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(employeesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	writeRow(f, employeesSheet, 1, stringsToCells(employeeExportHeaders))
	for i, e := range employees {
		writeRow(f, employeesSheet, i+2, employeeCells(e))
	}

	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	writeRow(f, historySheet, 1, stringsToCells(historyExportHeaders))

	row := 2
	employeeID = normalizeEmail(employeeID)
	for _, e := range employees {
		if employeeID != "" && e.Email != employeeID {
			continue
		}
		for _, a := range s.history.Recent(ctx, e.Email) {
			m := a.Metrics.Data()
			writeRow(f, historySheet, row, []interface{}{
				a.UserID, a.Timestamp.UTC().Format("2006-01-02 15:04"), a.Score, string(a.Risk),
				m.Focus, m.Stress, m.Satisfaction, string(a.Source),
			})
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported employees to Excel", "employees", len(employees), "history_rows", row-2)
	return buf.Bytes(), nil
}

func (s *importExportService) ExportEmployeesToCSV(ctx context.Context) ([]byte, error) {
	employees, err := s.employeesForExport(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(employeeExportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range employees {
		cells := employeeCells(e)
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = fmt.Sprint(c)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", "is not a readable Excel workbook", nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "Excel must have header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := headerMap["text"]; !ok {
		return nil, NewValidationError("file", "header row must contain a 'text' column", nil)
	}

	result := &ImportResult{
		TotalRows: len(rows) - 1,
		Errors:    []ImportRowError{},
		Questions: []*models.Question{},
	}

	for i, record := range rows[1:] {
		req, rowErrors := parseQuestionRow(record, headerMap, i+2)
		if len(rowErrors) == 0 {
			if err := s.validator.ValidateStruct(req); err != nil {
				rowErrors = append(rowErrors, ImportRowError{Row: i + 2, Column: "text", Message: err.Error(), Value: req.Text})
			}
		}
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}

		question, err := s.questions.Add(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to save question from row %d: %w", i+2, err)
		}
		result.Questions = append(result.Questions, question)
		result.SuccessCount++
	}

	s.logger.InfoContext(ctx, "Excel import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

// ===== HELPER METHODS =====

func (s *importExportService) employeesForExport(ctx context.Context) ([]*models.Employee, error) {
	employees, _, err := s.repo.Employee().List(ctx, repositories.EmployeeFilters{SortBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func employeeCells(e *models.Employee) []interface{} {
	cfg := e.SurveyConfig.Data()
	cells := []interface{}{e.Email, e.Name, e.Role, e.Age, "", "", "", "", "", "", string(cfg.Frequency), cfg.IsSurveyVisible}

	if latest, ok := e.Latest(); ok {
		cells[4] = latest.Score
		cells[5] = string(latest.Risk)
		if latest.Metrics != nil {
			cells[6] = latest.Metrics.Focus
			cells[7] = latest.Metrics.Stress
			cells[8] = latest.Metrics.Satisfaction
		}
		cells[9] = latest.Date.UTC().Format("2006-01-02 15:04")
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, value)
	}
}

func stringsToCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func parseQuestionRow(record []string, headerMap map[string]int, rowNum int) (*AddQuestionRequest, []ImportRowError) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	req := &AddQuestionRequest{
		Text:     getColumn("text"),
		Category: getColumn("category"),
	}
	if req.Text == "" {
		return nil, []ImportRowError{{Row: rowNum, Column: "text", Message: "is required"}}
	}

	if raw := getColumn("negative"); raw != "" {
		negative, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, []ImportRowError{{Row: rowNum, Column: "negative", Message: "must be true or false", Value: raw}}
		}
		req.Negative = negative
	}
	return req, nil
}
