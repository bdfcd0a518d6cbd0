package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/happynation/wellbeing-service/internal/config"
	"github.com/happynation/wellbeing-service/internal/utils"
)

var (
	cfg    *config.Config
	logger utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wellbeing",
	Short: "Employee well-being survey service",
	Long: `wellbeing runs the employee well-being survey API.

Employees and walk-in guests answer a short Likert survey and receive a score,
a risk tier and recommendations. HR manages employees, questions and schedules,
and reads aggregated analytics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = utils.NewLogger(cfg.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd, scoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
