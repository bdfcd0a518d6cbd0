package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/happynation/wellbeing-service/internal/models"
)

// SystemInstruction is the persona given to the generative model.
const SystemInstruction = "You are helpful, empathetic, and professional. Your analysis should be constructive."

// Request is everything the resolver may use to score one submission.
type Request struct {
	Questions []models.Question
	Answers   models.AnswerSet
	Profile   models.Profile
	// PreviousScores are oldest first.
	PreviousScores []int
}

func (r Request) displayName() string {
	if r.Profile == nil || r.Profile.DisplayName() == "" {
		return defaultDisplayName
	}
	return r.Profile.DisplayName()
}

func (r Request) negativeSet() map[int]bool {
	if len(r.Questions) == 0 {
		out := make(map[int]bool, len(models.DefaultNegativeIDs))
		for _, id := range models.DefaultNegativeIDs {
			out[id] = true
		}
		return out
	}
	return models.NegativeSet(r.Questions)
}

// BuildPrompt renders the analysis prompt for the generative model.
func BuildPrompt(req Request) string {
	name := req.displayName()
	role := "Team Member"
	age := "Unknown"
	if req.Profile != nil {
		if req.Profile.JobTitle() != "" {
			role = req.Profile.JobTitle()
		}
		if req.Profile.YearsOld() > 0 {
			age = strconv.Itoa(req.Profile.YearsOld())
		}
	}

	previous := "None"
	if len(req.PreviousScores) > 0 {
		parts := make([]string, len(req.PreviousScores))
		for i, s := range req.PreviousScores {
			parts[i] = strconv.Itoa(s)
		}
		previous = strings.Join(parts, ", ")
	}

	negative := req.negativeSet()
	negIDs := make([]string, 0, len(negative))
	for id := range negative {
		negIDs = append(negIDs, strconv.Itoa(id))
	}
	sort.Strings(negIDs)

	var qa strings.Builder
	for _, q := range req.Questions {
		v, ok := req.Answers[q.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&qa, "- [ID: %d] %q: %d\n", q.ID, q.Text, v)
	}

	return fmt.Sprintf(`You are an expert AI psychologist specializing in workplace well-being.

User Profile:
Name: %s
Role: %s
Age: %s

History:
Previous Scores: %s

Analyze the following employee survey responses based on the "Maslach Burnout Inventory" and "Job Satisfaction" principles.
Context: 1=Strongly Disagree/Never, 5=Strongly Agree/Always.

IMPORTANT SCORING RULES:
- Questions with IDs %s are NEGATIVE. High score (5) = BAD (High Stress).
- Other questions are POSITIVE. High score (5) = GOOD (High Well-being).
- When calculating the overall "score", you MUST inverse the values for the negative questions.
- Risk is "Low" above %d, "Medium" above %d, otherwise "High".

Questions & Answers:
%s
Output MUST be valid JSON with this schema:
{
  "score": number (0-100 integer, overall well-being score),
  "risk": "Low" | "Medium" | "High",
  "metrics": {
    "focus": number (0-100 integer, Motivation/Focus level),
    "stress": number (0-100 integer, Stress level, higher is worse),
    "satisfaction": number (0-100 integer, Job Satisfaction level)
  },
  "summary": "2 sentences max. Address the user by name (%s). Refer to their role or history if relevant.",
  "recommendations": ["Actionable tip 1", "Actionable tip 2", "Actionable tip 3"]
}`, name, role, age, previous, strings.Join(negIDs, ", "), lowRiskAbove, mediumRiskAbove, qa.String(), name)
}
