package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/happynation/wellbeing-service/internal/metrics"
	"github.com/happynation/wellbeing-service/internal/models"
)

const (
	maxAttempts    = 2
	defaultTimeout = 20 * time.Second
)

// Generator sends a prompt to a generative model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnalysisError is returned when the model path fails, so callers can tell a
// bad reply apart from an unreachable model.
type AnalysisError struct {
	Reason  string
	Wrapped error
}

func (e *AnalysisError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("analysis failed: %s", e.Reason)
}

func (e *AnalysisError) Unwrap() error {
	return e.Wrapped
}

// Resolver scores answer sets, preferring the generative model and falling
// back to the local scorer on any failure. Resolve always returns a result.
type Resolver struct {
	generator Generator
	fallback  *Fallback
	logger    *slog.Logger
	timeout   time.Duration
}

type Option func(*Resolver)

func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithFallback(f *Fallback) Option {
	return func(r *Resolver) {
		if f != nil {
			r.fallback = f
		}
	}
}

// NewResolver builds a resolver. A nil generator means every request is
// scored locally.
func NewResolver(generator Generator, logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		generator: generator,
		fallback:  NewFallback(nil),
		logger:    logger,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces a ScoreResult for req.
func (r *Resolver) Resolve(ctx context.Context, req Request) *models.ScoreResult {
	start := time.Now()

	if r.generator != nil {
		result, err := r.analyze(ctx, req)
		if err == nil {
			metrics.ObserveScoring(string(models.SourceAI), time.Since(start))
			r.logger.InfoContext(ctx, "Scored answers with model",
				"score", result.Score,
				"risk", result.Risk,
				"answers", len(req.Answers))
			return result
		}
		r.logger.WarnContext(ctx, "Model analysis failed, using local scorer",
			"error", err,
			"answers", len(req.Answers))
	}

	result := r.fallback.Score(req.Answers, req.negativeSet(), req.displayName())
	metrics.ObserveScoring(string(models.SourceFallback), time.Since(start))
	return result
}

func (r *Resolver) analyze(ctx context.Context, req Request) (*models.ScoreResult, error) {
	prompt := BuildPrompt(req)

	// The timeout is the budget for every attempt together.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := r.generator.Generate(ctx, prompt)
		if err != nil {
			lastErr = &AnalysisError{Reason: "model call failed", Wrapped: err}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result, err := ParseReply(raw)
		if err != nil {
			lastErr = err
			r.logger.DebugContext(ctx, "Discarding model reply", "attempt", attempt+1, "error", err)
			continue
		}
		return result, nil
	}

	return nil, &AnalysisError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxAttempts),
		Wrapped: lastErr,
	}
}
