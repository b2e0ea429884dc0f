package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-recruit/internal/app"
	"campus-recruit/internal/config"
	"campus-recruit/internal/database/migration"
	dbpostgres "campus-recruit/internal/database/postgres"
	"campus-recruit/internal/logger"
	ucauth "campus-recruit/internal/usecase/auth"
	"campus-recruit/migrations"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// migrateCmd applies pending schema migrations to the configured database.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations",
	RunE:  runMigrate,
}

// seedCmd creates the demo accounts and postings.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo accounts and job postings",
	Long: `Create the demo student, recruiter and admin accounts plus two
sample postings. Existing accounts are left untouched.`,
	RunE: runSeed,
}

// tokenCmd prints a session token for an existing account.
var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue a session token for an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func setup() (config.Config, *zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.App.AppName, cfg.App.Environment, cfg.App.LogLevel), nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return errors.New("migrate requires DB_DRIVER=postgres")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: log}
	if runner.Dir == "" {
		runner.FS = migrations.FS
	}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		return err
	}
	log.Info().Msg("migrations up to date")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn().Msg("memory driver selected, seeded data is discarded on exit")
	}
	cfg.App.SeedDemo = false

	c, err := app.NewContainer(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Seed(cmd.Context())
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	cfg.App.SeedDemo = cfg.Database.Driver == config.DriverMemory

	c, err := app.NewContainer(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	acc, err := c.Store.Accounts.GetByEmail(cmd.Context(), ucauth.NormalizeEmail(args[0]))
	if err != nil {
		return fmt.Errorf("lookup %s: %w", args[0], err)
	}
	sess, err := c.Auth.IssueSession(acc)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), sess.Token)
	log.Info().Str("email", acc.Email).Time("expires_at", sess.ExpiresAt).Msg("token issued")
	return nil
}
