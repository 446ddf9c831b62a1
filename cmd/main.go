package main

import (
	"fmt"
	"os"

	"clinic-frontdesk/cmd/bootstrap"
	"clinic-frontdesk/internal/infrastructure/database"
	"clinic-frontdesk/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinic",
		Short:         "Clinic front-desk scheduling service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg, log)
			if err != nil {
				logrus.Fatalf("Failed to initialize application: %v", err)
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}

			migrator, err := database.NewMigrator(cfg.DB, log)
			if err != nil {
				return err
			}
			defer migrator.Close()

			switch args[0] {
			case "up":
				return migrator.Up()
			case "down":
				return migrator.Down()
			default:
				version, dirty, err := migrator.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			}
		},
	}
}

func newTokenCmd() *cobra.Command {
	var staffID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a staff access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			id := uuid.New()
			if staffID != "" {
				if id, err = uuid.Parse(staffID); err != nil {
					return fmt.Errorf("invalid --staff-id: %w", err)
				}
			}

			token, err := jwt.NewJWTService(cfg.JWT).GenerateAccessToken(id, jwt.RoleStaff)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&staffID, "staff-id", "", "staff UUID to embed (random when empty)")
	return cmd
}
