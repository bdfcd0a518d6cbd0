package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/happynation/wellbeing-service/internal/models"
	"github.com/happynation/wellbeing-service/internal/scoring"
	"github.com/happynation/wellbeing-service/internal/validator"
)

var (
	scoreName  string
	scoreRole  string
	scoreLocal bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [answers.json]",
	Short: "Score an answer set against the default questions",
	Long: `score reads answers keyed by question id, for example {"1": 4, "2": 2},
from a file or stdin and prints the result as JSON. Nothing is stored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var answers models.AnswerSet
		if err := json.NewDecoder(in).Decode(&answers); err != nil {
			return fmt.Errorf("failed to decode answers: %w", err)
		}

		questions := models.DefaultQuestions()
		if errs := validator.New().Survey().ValidateAnswers(answers, questions, false); len(errs) > 0 {
			return errs
		}

		var generator scoring.Generator
		if !scoreLocal {
			g, err := newGenerator(cmd.Context())
			if err != nil {
				logger.Warn("Generative model unavailable, scoring locally", "error", err)
			} else {
				generator = g
			}
		}

		resolver := scoring.NewResolver(generator, logger.Slog(), scoring.WithTimeout(cfg.AI.Timeout))
		result := resolver.Resolve(cmd.Context(), scoring.Request{
			Questions: questions,
			Answers:   answers,
			Profile:   models.AnonymousProfile{Name: scoreName, Role: scoreRole},
		})

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreName, "name", "", "name used in the summary")
	scoreCmd.Flags().StringVar(&scoreRole, "role", "", "job title passed to the model")
	scoreCmd.Flags().BoolVar(&scoreLocal, "local", false, "skip the generative model")
}
