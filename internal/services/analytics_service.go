package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/happynation/wellbeing-service/internal/cache"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
)

const (
	DefaultAnalyticsTTL = 2 * time.Minute

	analyticsCachePattern = "analytics:*"
	riskCacheKey          = "analytics:risk"
	rolesCacheKey         = "analytics:roles"

	defaultRoleName = "General"
)

// AnalyticsService aggregates the latest result of every employee for HR
type AnalyticsService interface {
	// RiskDistribution returns the share of assessed employees per tier, in
	// High, Low, Medium order. It is empty when nobody has been assessed.
	RiskDistribution(ctx context.Context) ([]RiskShare, error)
	// RoleAverages groups assessed employees by job title.
	RoleAverages(ctx context.Context) ([]RoleAverage, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
	// Invalidate drops cached aggregates after employee or result changes.
	Invalidate(ctx context.Context)
}

// ===== DATA STRUCTURES =====

type RiskShare struct {
	Risk    models.RiskTier `json:"risk"`
	Label   string          `json:"label"`
	Percent int             `json:"percent"`
	Count   int             `json:"count"`
}

type RoleAverage struct {
	Role         string `json:"role"`
	Stress       int    `json:"stress"`
	Satisfaction int    `json:"satisfaction"`
	Employees    int    `json:"employees"`
}

type Dashboard struct {
	TotalEmployees      int64         `json:"total_employees"`
	AssessedEmployees   int           `json:"assessed_employees"`
	UnreadNotifications int64         `json:"unread_notifications"`
	RiskDistribution    []RiskShare   `json:"risk_distribution"`
	RoleAverages        []RoleAverage `json:"role_averages"`
	GeneratedAt         time.Time     `json:"generated_at"`
}

var riskLabels = map[models.RiskTier]string{
	models.RiskHigh:   "Burnout Risk",
	models.RiskLow:    "Healthy",
	models.RiskMedium: "Moderate Stress",
}

type analyticsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
	ttl    time.Duration
}

func NewAnalyticsService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, ttl time.Duration) AnalyticsService {
	if cacheService == nil {
		cacheService = cache.Noop{}
	}
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}
	return &analyticsService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
		ttl:    ttl,
	}
}

func (s *analyticsService) RiskDistribution(ctx context.Context) ([]RiskShare, error) {
	var cached []RiskShare
	if s.fromCache(ctx, riskCacheKey, &cached) {
		return cached, nil
	}

	employees, err := s.allEmployees(ctx)
	if err != nil {
		return nil, err
	}

	shares := riskDistribution(employees)
	s.toCache(ctx, riskCacheKey, shares)
	return shares, nil
}

func (s *analyticsService) RoleAverages(ctx context.Context) ([]RoleAverage, error) {
	var cached []RoleAverage
	if s.fromCache(ctx, rolesCacheKey, &cached) {
		return cached, nil
	}

	employees, err := s.allEmployees(ctx)
	if err != nil {
		return nil, err
	}

	averages := roleAverages(employees)
	s.toCache(ctx, rolesCacheKey, averages)
	return averages, nil
}

// Dashboard loads the employee roster and the unread notification count
// concurrently.
func (s *analyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		employees []*models.Employee
		unread    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.allEmployees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		_, unread, err = s.repo.Notification().List(gctx, repositories.NotificationFilters{UnreadOnly: true, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to count notifications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assessed := 0
	for _, e := range employees {
		if _, ok := e.Latest(); ok {
			assessed++
		}
	}

	return &Dashboard{
		TotalEmployees:      int64(len(employees)),
		AssessedEmployees:   assessed,
		UnreadNotifications: unread,
		RiskDistribution:    riskDistribution(employees),
		RoleAverages:        roleAverages(employees),
		GeneratedAt:         time.Now().UTC(),
	}, nil
}

func (s *analyticsService) Invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, analyticsCachePattern); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate analytics cache", "error", err)
	}
}

// ===== HELPER METHODS =====

func (s *analyticsService) allEmployees(ctx context.Context) ([]*models.Employee, error) {
	employees, _, err := s.repo.Employee().List(ctx, repositories.EmployeeFilters{SortBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *analyticsService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "Analytics cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *analyticsService) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "Analytics cache write failed", "key", key, "error", err)
	}
}

func riskDistribution(employees []*models.Employee) []RiskShare {
	counts := make(map[models.RiskTier]int, len(models.RiskTiers))
	total := 0
	for _, e := range employees {
		latest, ok := e.Latest()
		if !ok {
			continue
		}
		counts[latest.Risk]++
		total++
	}

	shares := []RiskShare{}
	if total == 0 {
		return shares
	}
	for _, tier := range models.RiskTiers {
		shares = append(shares, RiskShare{
			Risk:    tier,
			Label:   riskLabels[tier],
			Percent: roundedRatio(counts[tier]*100, total),
			Count:   counts[tier],
		})
	}
	return shares
}

// roleAverages keeps roles in the order they are first seen.
func roleAverages(employees []*models.Employee) []RoleAverage {
	type sums struct {
		stress, satisfaction, count int
	}
	groups := make(map[string]*sums)
	var order []string

	for _, e := range employees {
		latest, ok := e.Latest()
		if !ok || latest.Metrics == nil {
			continue
		}
		role := e.Role
		if role == "" {
			role = defaultRoleName
		}
		g, seen := groups[role]
		if !seen {
			g = &sums{}
			groups[role] = g
			order = append(order, role)
		}
		g.stress += latest.Metrics.Stress
		g.satisfaction += latest.Metrics.Satisfaction
		g.count++
	}

	out := make([]RoleAverage, 0, len(order))
	for _, role := range order {
		g := groups[role]
		out = append(out, RoleAverage{
			Role:         role,
			Stress:       roundedRatio(g.stress, g.count),
			Satisfaction: roundedRatio(g.satisfaction, g.count),
			Employees:    g.count,
		})
	}
	return out
}

// roundedRatio is num/den rounded half up, for non-negative inputs.
func roundedRatio(num, den int) int {
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
