package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/happynation/wellbeing-service/internal/repositories/postgres"
	"github.com/happynation/wellbeing-service/internal/services"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed default questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := postgres.AutoMigrate(a.db); err != nil {
			return err
		}
		if err := a.services.Question().SeedDefaults(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Schema migrated")
		return nil
	},
}

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the HR admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		created, err := a.services.Auth().SeedAdmin(cmd.Context(), &services.SeedAdminRequest{
			Email:    adminEmail,
			Password: adminPassword,
			Name:     adminName,
		})
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", adminEmail)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", adminEmail)
		}
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (required)")
	seedAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (required)")
	seedAdminCmd.Flags().StringVar(&adminName, "name", "HR Admin", "display name")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")
}
