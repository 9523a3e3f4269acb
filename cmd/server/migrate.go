package main

import (
	"errors"
	"fmt"

	"github.com/phrazzld/notes-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var errNoDatabaseURL = errors.New("database URL is empty: set NOTES_DATABASE_URL")

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|reset]",
		Short: "Run the embedded Postgres migrations",
		Long: `Run the goose migrations embedded in the binary against NOTES_DATABASE_URL.

Examples:
  notes-api migrate up
  notes-api migrate status`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateReset},
		RunE:      runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := postgres.MigrateUp
	if len(args) == 1 {
		command = args[0]
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errNoDatabaseURL
	}

	db, err := setupAppDatabase(cmd.Context(), cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := postgres.Migrate(cmd.Context(), db, command, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
