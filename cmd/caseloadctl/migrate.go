package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/slp-caseload/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|version|redo|reset]",
	Short: "Apply or inspect schema migrations",
	Long: `Run a goose migration command against the configured database.
The schema migrations are embedded in the binary.

Examples:
  # Apply every pending migration
  caseloadctl migrate up

  # Show which migrations have run
  caseloadctl migrate status

  # Roll back the latest migration
  caseloadctl migrate down`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status", "version", "redo", "reset"},
	RunE:      runMigrate,
}

func runMigrate(_ *cobra.Command, args []string) error {
	command := "up"
	if len(args) == 1 {
		command = args[0]
	}

	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db.DB, command); err != nil {
		return err
	}
	logr.Sugar().Infow("migration finished", "command", command)
	return nil
}
