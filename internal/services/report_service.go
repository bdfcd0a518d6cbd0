package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/happynation/wellbeing-service/internal/models"
)

type ReportType string

const (
	ReportDaily   ReportType = "Daily"
	ReportWeekly  ReportType = "Weekly"
	ReportMonthly ReportType = "Monthly"

	maxReportRows = 10
	qrCodeBaseURL = "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return true
	}
	return false
}

// span is how far back the report looks. Daily reports use the latest
// result only.
func (t ReportType) span() time.Duration {
	switch t {
	case ReportWeekly:
		return 7 * 24 * time.Hour
	case ReportMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// ReportService builds printable well-being reports for one employee
type ReportService interface {
	Build(ctx context.Context, employeeID string, reportType ReportType) (*Report, error)
	Render(w io.Writer, report *Report) error
}

type Report struct {
	Type            ReportType  `json:"type"`
	EmployeeID      string      `json:"employee_id"`
	EmployeeName    string      `json:"employee_name"`
	EmployeeRole    string      `json:"employee_role"`
	DateLabel       string      `json:"date_label"`
	Count           int         `json:"count"`
	Score           int         `json:"score"`
	Risk            string      `json:"risk"`
	Summary         string      `json:"summary"`
	Recommendations []string    `json:"recommendations,omitempty"`
	Rows            []ReportRow `json:"rows"`
	QRCodeURL       string      `json:"qr_code_url"`
	ScoreColor      string      `json:"score_color"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

type ReportRow struct {
	Date  time.Time       `json:"date"`
	Score int             `json:"score"`
	Risk  models.RiskTier `json:"risk"`
}

//go:embed templates/report.html.tmpl
var reportTemplateSource string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
}).Parse(reportTemplateSource))

type reportService struct {
	employees EmployeeService
	history   HistoryService
	logger    *slog.Logger
	now       func() time.Time
}

func NewReportService(employees EmployeeService, history HistoryService, logger *slog.Logger) ReportService {
	return &reportService{
		employees: employees,
		history:   history,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *reportService) Build(ctx context.Context, employeeID string, reportType ReportType) (*Report, error) {
	if !reportType.Valid() {
		return nil, ValidationErrors{}.Add("type", "must be one of Daily Weekly Monthly", string(reportType))
	}

	employee, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	history := s.history.Recent(ctx, employee.Email)

	now := s.now()
	report := buildReport(employee, history, reportType, now)
	s.logger.DebugContext(ctx, "Built report",
		"employee_id", employee.Email,
		"type", reportType,
		"count", report.Count)
	return report, nil
}

func (s *reportService) Render(w io.Writer, report *Report) error {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// buildReport is pure so it can be tested without stores. history is
// oldest first.
func buildReport(employee *models.Employee, history []*models.Assessment, reportType ReportType, now time.Time) *Report {
	report := &Report{
		Type:         reportType,
		EmployeeID:   employee.Email,
		EmployeeName: employee.Name,
		EmployeeRole: employee.Role,
		GeneratedAt:  now.UTC(),
	}

	var selected []*models.Assessment
	if reportType == ReportDaily {
		if n := len(history); n > 0 {
			selected = history[n-1:]
		}
		report.DateLabel = now.Format("Jan 2, 2006")
	} else {
		cutoff := now.Add(-reportType.span())
		for _, a := range history {
			if !a.Timestamp.Before(cutoff) {
				selected = append(selected, a)
			}
		}
		days := int(reportType.span() / (24 * time.Hour))
		report.DateLabel = fmt.Sprintf("Last %d Days (Ending %s)", days, now.Format("Jan 2, 2006"))
	}
	report.Count = len(selected)

	if reportType == ReportDaily {
		report.Risk = "N/A"
		report.Summary = "Daily analysis complete."
		if len(selected) == 1 {
			latest := selected[0]
			report.Score = latest.Score
			report.Risk = string(latest.Risk)
			if latest.Summary != "" {
				report.Summary = latest.Summary
			}
			report.Recommendations = []string(latest.Recommendations)
		}
	} else {
		report.Score = averageScore(selected)
		report.Risk = string(dominantRisk(selected))
		report.Summary = fmt.Sprintf("This %s report aggregates %d assessments. The dominant risk factor observed is %s.",
			strings.ToLower(string(reportType)), report.Count, report.Risk)
	}

	rows := selected
	if len(rows) > maxReportRows {
		rows = rows[:maxReportRows]
	}
	report.Rows = make([]ReportRow, len(rows))
	for i, a := range rows {
		report.Rows[i] = ReportRow{Date: a.Timestamp, Score: a.Score, Risk: a.Risk}
	}

	report.ScoreColor = scoreColor(report.Score)
	report.QRCodeURL = qrCodeURL(employee, report.Score, report.Risk)
	return report
}

func averageScore(items []*models.Assessment) int {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, a := range items {
		total += a.Score
	}
	return roundedRatio(total, len(items))
}

// dominantRisk returns the most frequent tier. On a tie the tier whose first
// occurrence is latest wins; no results means Low.
func dominantRisk(items []*models.Assessment) models.RiskTier {
	counts := make(map[models.RiskTier]int)
	var order []models.RiskTier
	for _, a := range items {
		if counts[a.Risk] == 0 {
			order = append(order, a.Risk)
		}
		counts[a.Risk]++
	}

	best := models.RiskLow
	for _, tier := range order {
		if counts[best] <= counts[tier] {
			best = tier
		}
	}
	return best
}

func scoreColor(score int) string {
	switch {
	case score >= 70:
		return "#10b981"
	case score >= 40:
		return "#f59e0b"
	}
	return "#ef4444"
}

func qrCodeURL(employee *models.Employee, score int, risk string) string {
	data := fmt.Sprintf("Employee: %s\nID: %s\nRole: %s\nLatest Score: %d\nRisk: %s",
		employee.Name, employee.Email, employee.Role, score, risk)
	return qrCodeBaseURL + strings.ReplaceAll(url.QueryEscape(data), "+", "%20")
}
