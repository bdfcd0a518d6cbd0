package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
	"github.com/happynation/wellbeing-service/internal/validator"
)

func newTestImportExportService(repo *MockRepository) ImportExportService {
	logger := quietLogger()
	v := validator.New()
	return NewImportExportService(repo, NewQuestionService(repo, logger, v), NewHistoryService(repo, logger, 0), logger, v)
}

func exportRoster() []*models.Employee {
	at := time.Now().Add(-time.Hour)
	ann := assessedEmployee("ann@corp.com", "Ann", "Engineer", 72, models.RiskLow, 30, 80, at)
	bo := &models.Employee{
		Email:        "bo@corp.com",
		Name:         "Bo",
		Role:         "Designer",
		SurveyConfig: datatypes.NewJSONType(models.DefaultSurveyConfig()),
	}
	return []*models.Employee{ann, bo}
}

func TestImportExportService_ExportEmployeesToExcel(t *testing.T) {
	repo := newMockRepository()
	repo.employee.On("List", mock.Anything, repositories.EmployeeFilters{SortBy: "name"}).Return(exportRoster(), int64(2), nil)
	repo.assessment.On("ListByUser", mock.Anything, "ann@corp.com").Return([]*models.Assessment{
		{ID: 1, UserID: "ann@corp.com", Score: 72, Risk: models.RiskLow, Source: models.SourceAI, Timestamp: time.Now().Add(-time.Hour)},
	}, nil)

	data, err := newTestImportExportService(repo).ExportEmployeesToExcel(context.Background(), "Ann@corp.com")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{employeesSheet, historySheet}, f.GetSheetList())

	rows, err := f.GetRows(employeesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, employeeExportHeaders, rows[0])
	assert.Equal(t, "ann@corp.com", rows[1][0])
	assert.Equal(t, "72", rows[1][4])
	assert.Equal(t, "Low", rows[1][5])
	assert.Equal(t, "bo@corp.com", rows[2][0])

	history, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "ann@corp.com", history[1][0])
	assert.Equal(t, "ai", history[1][7])

	repo.assessment.AssertNotCalled(t, "ListByUser", mock.Anything, "bo@corp.com")
}

func TestImportExportService_ExportEmployeesToCSV(t *testing.T) {
	repo := newMockRepository()
	repo.employee.On("List", mock.Anything, repositories.EmployeeFilters{SortBy: "name"}).Return(exportRoster(), int64(2), nil)

	data, err := newTestImportExportService(repo).ExportEmployeesToCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, employeeExportHeaders, records[0])
	assert.Equal(t, "Ann", records[1][1])
	assert.Equal(t, "weekly", records[2][10])
}

func questionWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		writeRow(f, "Sheet1", i+1, row)
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportExportService_ImportQuestionsFromExcel(t *testing.T) {
	repo := newMockRepository()
	repo.question.On("MaxID", mock.Anything).Return(12, nil).Once()
	repo.question.On("Create", mock.Anything, mock.MatchedBy(func(q *models.Question) bool {
		return q.ID == 13 && q.Text == "I sleep well most nights." && !q.Negative && q.Category == "balance"
	})).Return(nil).Once()

	workbook := questionWorkbook(t, [][]interface{}{
		{"Text", "Category", "Negative"},
		{"I sleep well most nights.", "balance", "false"},
		{"", "balance", "true"},
		{"abc", "", ""},
		{"Work keeps me up at night.", "", "often"},
	})

	result, err := newTestImportExportService(repo).ImportQuestionsFromExcel(context.Background(), workbook)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 3, result.ErrorCount)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, 13, result.Questions[0].ID)

	rows := make([]int, len(result.Errors))
	for i, e := range result.Errors {
		rows[i] = e.Row
	}
	assert.Equal(t, []int{3, 4, 5}, rows)
	assert.Equal(t, "negative", result.Errors[2].Column)
	repo.AssertExpectations(t)
}

func TestImportExportService_ImportRejectsMissingHeader(t *testing.T) {
	repo := newMockRepository()
	workbook := questionWorkbook(t, [][]interface{}{
		{"Question"},
		{"I sleep well most nights."},
	})

	_, err := newTestImportExportService(repo).ImportQuestionsFromExcel(context.Background(), workbook)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestImportExportService_ImportRejectsGarbage(t *testing.T) {
	_, err := newTestImportExportService(newMockRepository()).
		ImportQuestionsFromExcel(context.Background(), bytes.NewBufferString("not a workbook"))
	assert.True(t, IsValidation(err))
}
