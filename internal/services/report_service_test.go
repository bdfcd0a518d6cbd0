package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/validator"
)

var reportNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func reportHistory() []*models.Assessment {
	return []*models.Assessment{
		{ID: 1, Score: 40, Risk: models.RiskHigh, Timestamp: reportNow.Add(-10 * 24 * time.Hour)},
		{ID: 2, Score: 60, Risk: models.RiskMedium, Timestamp: reportNow.Add(-5 * 24 * time.Hour)},
		{ID: 3, Score: 80, Risk: models.RiskLow, Timestamp: reportNow.Add(-24 * time.Hour),
			Summary: "Doing well.", Recommendations: []string{"Keep walking", "Sleep early"}},
	}
}

func TestBuildReport_Daily(t *testing.T) {
	employee := &models.Employee{Email: "ann@corp.com", Name: "Ann", Role: "Engineer"}

	report := buildReport(employee, reportHistory(), ReportDaily, reportNow)

	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 80, report.Score)
	assert.Equal(t, "Low", report.Risk)
	assert.Equal(t, "Doing well.", report.Summary)
	assert.Equal(t, []string{"Keep walking", "Sleep early"}, report.Recommendations)
	assert.Equal(t, "Mar 10, 2025", report.DateLabel)
	assert.Equal(t, "#10b981", report.ScoreColor)
	require.Len(t, report.Rows, 1)
}

func TestBuildReport_DailyWithoutHistory(t *testing.T) {
	employee := &models.Employee{Email: "bo@corp.com", Name: "Bo"}

	report := buildReport(employee, nil, ReportDaily, reportNow)

	assert.Equal(t, 0, report.Count)
	assert.Equal(t, "N/A", report.Risk)
	assert.Equal(t, "Daily analysis complete.", report.Summary)
	assert.Equal(t, "#ef4444", report.ScoreColor)
	assert.Empty(t, report.Rows)
}

func TestBuildReport_Weekly(t *testing.T) {
	employee := &models.Employee{Email: "ann@corp.com", Name: "Ann", Role: "Engineer"}

	report := buildReport(employee, reportHistory(), ReportWeekly, reportNow)

	assert.Equal(t, 2, report.Count)
	assert.Equal(t, 70, report.Score)
	assert.Equal(t, "Low", report.Risk)
	assert.Equal(t, "Last 7 Days (Ending Mar 10, 2025)", report.DateLabel)
	assert.Equal(t, "This weekly report aggregates 2 assessments. The dominant risk factor observed is Low.", report.Summary)
	assert.Empty(t, report.Recommendations)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 60, report.Rows[0].Score)
}

func TestBuildReport_MonthlyCapsRows(t *testing.T) {
	employee := &models.Employee{Email: "ann@corp.com", Name: "Ann"}
	var history []*models.Assessment
	for i := 0; i < 12; i++ {
		history = append(history, &models.Assessment{
			Score:     50 + i,
			Risk:      models.RiskMedium,
			Timestamp: reportNow.Add(-time.Duration(12-i) * 24 * time.Hour),
		})
	}

	report := buildReport(employee, history, ReportMonthly, reportNow)

	assert.Equal(t, 12, report.Count)
	assert.Len(t, report.Rows, maxReportRows)
	assert.Equal(t, 50, report.Rows[0].Score)
	assert.Equal(t, "Medium", report.Risk)
}

func TestDominantRisk(t *testing.T) {
	a := func(risks ...models.RiskTier) []*models.Assessment {
		out := make([]*models.Assessment, len(risks))
		for i, r := range risks {
			out[i] = &models.Assessment{Risk: r}
		}
		return out
	}

	tests := []struct {
		name  string
		items []*models.Assessment
		want  models.RiskTier
	}{
		{name: "empty", items: nil, want: models.RiskLow},
		{name: "majority", items: a(models.RiskHigh, models.RiskHigh, models.RiskLow), want: models.RiskHigh},
		{name: "tie goes to later tier", items: a(models.RiskHigh, models.RiskLow, models.RiskLow, models.RiskHigh), want: models.RiskLow},
		{name: "single", items: a(models.RiskMedium), want: models.RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dominantRisk(tt.items))
		})
	}
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, "#10b981", scoreColor(70))
	assert.Equal(t, "#f59e0b", scoreColor(69))
	assert.Equal(t, "#f59e0b", scoreColor(40))
	assert.Equal(t, "#ef4444", scoreColor(39))
}

func TestQRCodeURL(t *testing.T) {
	employee := &models.Employee{Email: "ann@corp.com", Name: "Ann Lee", Role: "Engineer"}

	got := qrCodeURL(employee, 72, "Low")

	require.True(t, strings.HasPrefix(got, qrCodeBaseURL))
	data := strings.TrimPrefix(got, qrCodeBaseURL)
	assert.NotContains(t, data, "+")
	assert.Contains(t, data, "Ann%20Lee")
	assert.Contains(t, data, "Latest%20Score%3A%2072")
	assert.Contains(t, data, "%0A")
}

func TestReportService_BuildAndRender(t *testing.T) {
	repo := newMockRepository()
	logger := quietLogger()
	v := validator.New()

	employee := &models.Employee{Email: "ann@corp.com", Name: "<b>Ann</b>", Role: "Engineer"}
	repo.employee.On("GetByEmail", mock.Anything, "ann@corp.com").Return(employee, nil)
	repo.assessment.On("ListByUser", mock.Anything, "ann@corp.com").Return(reportHistory(), nil)
	repo.assessment.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()

	history := NewHistoryService(repo, logger, 0).(*historyService)
	history.now = func() time.Time { return reportNow }
	employees := NewEmployeeService(repo, nil, nil, nil, v, logger)
	svc := NewReportService(employees, history, logger).(*reportService)
	svc.now = func() time.Time { return reportNow }

	report, err := svc.Build(context.Background(), "Ann@Corp.com", ReportWeekly)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count)

	var buf bytes.Buffer
	require.NoError(t, svc.Render(&buf, report))
	html := buf.String()
	assert.Contains(t, html, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.NotContains(t, html, "<b>Ann</b>")
	assert.Contains(t, html, "Last 7 Days (Ending Mar 10, 2025)")
	assert.Contains(t, html, "api.qrserver.com")
}

func TestReportService_RejectsUnknownType(t *testing.T) {
	svc := NewReportService(nil, nil, quietLogger())

	_, err := svc.Build(context.Background(), "ann@corp.com", ReportType("Yearly"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
