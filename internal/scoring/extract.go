package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/happynation/wellbeing-service/internal/models"
)

type modelReply struct {
	Score           *int           `json:"score"`
	Risk            string         `json:"risk"`
	Metrics         models.Metrics `json:"metrics"`
	Summary         string         `json:"summary"`
	Recommendations []string       `json:"recommendations"`
}

// ParseReply turns raw model output into a validated result.
func ParseReply(raw string) (*models.ScoreResult, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("```json", "", "```", "").Replace(raw))
	body := extractJSON(cleaned)
	if body == "" {
		return nil, &AnalysisError{Reason: "no JSON object found in model reply"}
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, &AnalysisError{Reason: "invalid JSON from model", Wrapped: err}
	}

	if reply.Score == nil {
		return nil, &AnalysisError{Reason: "reply has no score"}
	}
	if *reply.Score < 0 || *reply.Score > 100 {
		return nil, &AnalysisError{Reason: fmt.Sprintf("score %d out of range", *reply.Score)}
	}
	risk := models.RiskTier(reply.Risk)
	if !risk.Valid() {
		return nil, &AnalysisError{Reason: fmt.Sprintf("unknown risk tier %q", reply.Risk)}
	}
	for _, m := range []int{reply.Metrics.Focus, reply.Metrics.Stress, reply.Metrics.Satisfaction} {
		if m < 0 || m > 100 {
			return nil, &AnalysisError{Reason: fmt.Sprintf("metric %d out of range", m)}
		}
	}
	if strings.TrimSpace(reply.Summary) == "" {
		return nil, &AnalysisError{Reason: "reply has no summary"}
	}

	return &models.ScoreResult{
		Score:           *reply.Score,
		Risk:            risk,
		Metrics:         reply.Metrics,
		Summary:         reply.Summary,
		Recommendations: reply.Recommendations,
		Source:          models.SourceAI,
	}, nil
}

// extractJSON finds the outermost JSON object in s, skipping braces inside
// quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
