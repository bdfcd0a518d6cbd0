package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
)

func sampleRoster() []*models.Employee {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []*models.Employee{
		assessedEmployee("a@corp.com", "Ann", "Engineer", 20, models.RiskHigh, 80, 20, at),
		assessedEmployee("b@corp.com", "Bo", "Engineer", 30, models.RiskHigh, 60, 40, at),
		assessedEmployee("c@corp.com", "Cy", "", 90, models.RiskLow, 10, 90, at),
		assessedEmployee("d@corp.com", "Dee", "Designer", 60, models.RiskMedium, 45, 55, at),
		{Email: "e@corp.com", Name: "Eve", Role: "Engineer"},
	}
}

func TestRiskDistribution(t *testing.T) {
	shares := riskDistribution(sampleRoster())

	require.Len(t, shares, 3)
	assert.Equal(t, RiskShare{Risk: models.RiskHigh, Label: "Burnout Risk", Percent: 50, Count: 2}, shares[0])
	assert.Equal(t, RiskShare{Risk: models.RiskLow, Label: "Healthy", Percent: 25, Count: 1}, shares[1])
	assert.Equal(t, RiskShare{Risk: models.RiskMedium, Label: "Moderate Stress", Percent: 25, Count: 1}, shares[2])
}

func TestRiskDistribution_NobodyAssessed(t *testing.T) {
	shares := riskDistribution([]*models.Employee{{Email: "x@corp.com"}})
	assert.NotNil(t, shares)
	assert.Empty(t, shares)
}

func TestRoleAverages(t *testing.T) {
	averages := roleAverages(sampleRoster())

	assert.Equal(t, []RoleAverage{
		{Role: "Engineer", Stress: 70, Satisfaction: 30, Employees: 2},
		{Role: "General", Stress: 10, Satisfaction: 90, Employees: 1},
		{Role: "Designer", Stress: 45, Satisfaction: 55, Employees: 1},
	}, averages)
}

func TestRoundedRatio(t *testing.T) {
	tests := []struct {
		num, den, want int
	}{
		{num: 5, den: 2, want: 3},
		{num: 1, den: 3, want: 0},
		{num: 2, den: 3, want: 1},
		{num: 100, den: 3, want: 33},
		{num: 7, den: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundedRatio(tt.num, tt.den), "%d/%d", tt.num, tt.den)
	}
}

func TestAnalyticsService_CachesUntilInvalidated(t *testing.T) {
	repo := newMockRepository()
	repo.employee.On("List", mock.Anything, repositories.EmployeeFilters{SortBy: "name"}).
		Return(sampleRoster(), int64(5), nil)

	svc := NewAnalyticsService(repo, newMemCache(), quietLogger(), time.Minute)
	ctx := context.Background()

	first, err := svc.RiskDistribution(ctx)
	require.NoError(t, err)
	second, err := svc.RiskDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.employee.AssertNumberOfCalls(t, "List", 1)

	_, err = svc.RoleAverages(ctx)
	require.NoError(t, err)
	repo.employee.AssertNumberOfCalls(t, "List", 2)

	svc.Invalidate(ctx)
	_, err = svc.RiskDistribution(ctx)
	require.NoError(t, err)
	repo.employee.AssertNumberOfCalls(t, "List", 3)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	repo := newMockRepository()
	repo.employee.On("List", mock.Anything, repositories.EmployeeFilters{SortBy: "name"}).
		Return(sampleRoster(), int64(5), nil)
	repo.notification.On("List", mock.Anything, repositories.NotificationFilters{UnreadOnly: true, Limit: 1}).
		Return([]*models.Notification{}, int64(3), nil)

	dash, err := NewAnalyticsService(repo, nil, quietLogger(), 0).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), dash.TotalEmployees)
	assert.Equal(t, 4, dash.AssessedEmployees)
	assert.Equal(t, int64(3), dash.UnreadNotifications)
	assert.Len(t, dash.RiskDistribution, 3)
	assert.Len(t, dash.RoleAverages, 3)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_DashboardStoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.employee.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("db down"))
	repo.notification.On("List", mock.Anything, mock.Anything).Return([]*models.Notification{}, int64(0), nil).Maybe()

	_, err := NewAnalyticsService(repo, nil, quietLogger(), 0).Dashboard(context.Background())
	assert.Error(t, err)
}
