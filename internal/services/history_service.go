package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/repositories"
)

const (
	DefaultHistoryWindow = 30 * 24 * time.Hour

	pruneTimeout     = 30 * time.Second
	pruneConcurrency = 4
)

// HistoryService reads per-user assessment history inside a rolling window.
type HistoryService interface {
	// Recent returns the user's results inside the window, oldest first.
	// Older rows are left out and deleted in the background. A store failure
	// yields an empty history.
	Recent(ctx context.Context, userID string) []*models.Assessment
	// Wait blocks until background pruning started so far has finished.
	Wait()
}

type historyService struct {
	repo   repositories.Repository
	logger *slog.Logger
	window time.Duration
	now    func() time.Time

	pruning sync.WaitGroup
}

func NewHistoryService(repo repositories.Repository, logger *slog.Logger, window time.Duration) HistoryService {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &historyService{
		repo:   repo,
		logger: logger,
		window: window,
		now:    time.Now,
	}
}

func (s *historyService) Recent(ctx context.Context, userID string) []*models.Assessment {
	all, err := s.repo.Assessment().ListByUser(ctx, userID)
	if err != nil {
		metrics.StoreFailure("list_history")
		s.logger.WarnContext(ctx, "Failed to load history", "user_id", userID, "error", err)
		return []*models.Assessment{}
	}

	cutoff := s.now().Add(-s.window)
	kept := make([]*models.Assessment, 0, len(all))
	var stale []uint
	for _, a := range all {
		if a.Timestamp.Before(cutoff) {
			stale = append(stale, a.ID)
			continue
		}
		kept = append(kept, a)
	}

	if len(stale) > 0 {
		s.prune(userID, stale)
	}
	return kept
}

// prune deletes stale rows off the request path. It is bound to its own
// timeout, not the request context, so a finished request does not cancel it.
func (s *historyService) prune(userID string, ids []uint) {
	s.pruning.Add(1)
	go func() {
		defer s.pruning.Done()

		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(pruneConcurrency)
		for _, id := range ids {
			g.Go(func() error {
				return s.repo.Assessment().Delete(gctx, id)
			})
		}

		if err := g.Wait(); err != nil {
			metrics.StoreFailure("prune_history")
			s.logger.Warn("Failed to prune history", "user_id", userID, "count", len(ids), "error", err)
			return
		}
		s.logger.Debug("Pruned history", "user_id", userID, "count", len(ids))
	}()
}

func (s *historyService) Wait() {
	s.pruning.Wait()
}

// scoresOf returns the scores of history, oldest first.
func scoresOf(history []*models.Assessment) []int {
	out := make([]int, len(history))
	for i, a := range history {
		out[i] = a.Score
	}
	return out
}
