package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no reply")
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

const goodReply = "```json\n" + `{"score": 82, "risk": "Low", "metrics": {"focus": 80, "stress": 20, "satisfaction": 85},
"summary": "Great work, Dana.", "recommendations": ["a", "b", "c"]}` + "\n```"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() Request {
	return Request{
		Questions: models.DefaultQuestions()[:5],
		Answers:   models.AnswerSet{1: 5, 2: 5, 3: 5, 4: 1, 5: 1},
		Profile:   models.AnonymousProfile{Name: "Dana", Role: "Engineer", Age: 31},
	}
}

func TestResolver_UsesModelReply(t *testing.T) {
	gen := &stubGenerator{replies: []string{goodReply}}
	r := NewResolver(gen, quietLogger())

	res := r.Resolve(context.Background(), sampleRequest())

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, models.SourceAI, res.Source)
	assert.Equal(t, 82, res.Score)
	assert.Equal(t, models.RiskLow, res.Risk)
	assert.Equal(t, []string{"a", "b", "c"}, res.Recommendations)
}

func TestResolver_RetriesOnceOnBadReply(t *testing.T) {
	gen := &stubGenerator{replies: []string{"I cannot answer that", goodReply}}
	r := NewResolver(gen, quietLogger())

	res := r.Resolve(context.Background(), sampleRequest())

	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, models.SourceAI, res.Source)
}

func TestResolver_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"network error", &stubGenerator{errs: []error{errors.New("dial tcp: refused"), errors.New("dial tcp: refused")}}},
		{"garbage replies", &stubGenerator{replies: []string{"nope", "still nope"}}},
		{"risk outside the tier set", &stubGenerator{replies: []string{
			`{"score": 50, "risk": "Severe", "metrics": {}, "summary": "x"}`,
			`{"score": 50, "risk": "Severe", "metrics": {}, "summary": "x"}`,
		}}},
		{"score out of range", &stubGenerator{replies: []string{
			`{"score": 140, "risk": "Low", "metrics": {}, "summary": "x"}`,
			`{"score": 140, "risk": "Low", "metrics": {}, "summary": "x"}`,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.gen, quietLogger(), WithFallback(NewFallback(fixedSource(0.5))))
			res := r.Resolve(context.Background(), sampleRequest())

			assert.Equal(t, maxAttempts, tt.gen.calls)
			assert.Equal(t, models.SourceFallback, res.Source)
			assert.Equal(t, 20, res.Score)
			assert.Equal(t, models.RiskHigh, res.Risk)
			assert.Contains(t, res.Summary, "Dana")
		})
	}
}

func TestResolver_NoGeneratorScoresLocally(t *testing.T) {
	r := NewResolver(nil, quietLogger())
	res := r.Resolve(context.Background(), sampleRequest())
	assert.Equal(t, models.SourceFallback, res.Source)
}

func TestResolver_TimeoutFallsBack(t *testing.T) {
	r := NewResolver(blockingGenerator{}, quietLogger(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	res := r.Resolve(context.Background(), sampleRequest())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, models.SourceFallback, res.Source)
}

type deadlineRecorder struct {
	deadlines []time.Time
}

func (d *deadlineRecorder) Generate(ctx context.Context, prompt string) (string, error) {
	deadline, _ := ctx.Deadline()
	d.deadlines = append(d.deadlines, deadline)
	return "not json", nil
}

func TestResolver_TimeoutCoversAllAttempts(t *testing.T) {
	gen := &deadlineRecorder{}
	r := NewResolver(gen, quietLogger(), WithTimeout(time.Minute))

	res := r.Resolve(context.Background(), sampleRequest())

	assert.Equal(t, models.SourceFallback, res.Source)
	require.Len(t, gen.deadlines, maxAttempts)
	assert.False(t, gen.deadlines[0].IsZero())
	for _, d := range gen.deadlines[1:] {
		assert.Equal(t, gen.deadlines[0], d)
	}
}

func TestResolver_EmptyAnswers(t *testing.T) {
	r := NewResolver(nil, quietLogger())
	res := r.Resolve(context.Background(), Request{Answers: models.AnswerSet{}})
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, models.RiskHigh, res.Risk)
	assert.Contains(t, res.Summary, "Employee")
}

func TestAnalysisError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &AnalysisError{Reason: "model call failed", Wrapped: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "analysis failed: model call failed: boom", err.Error())
}
