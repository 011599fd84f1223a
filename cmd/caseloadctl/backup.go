package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/slp-caseload/internal/app"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/database"
)

const maintenanceTimeout = 30 * time.Minute

var restoreFile string

func init() {
	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "backup file name inside BACKUP_DIR (required)")
	_ = restoreCmd.MarkFlagRequired("file")
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Dump the database into BACKUP_DIR",
	Long: `Write a plain SQL pg_dump of the caseload database into BACKUP_DIR and keep
only the newest BACKUP_KEEP backups.

Examples:
  caseloadctl backup
  BACKUP_DIR=/srv/backups BACKUP_KEEP=30 caseloadctl backup`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore --file NAME",
	Short: "Restore the database from a backup in BACKUP_DIR",
	Long: `Replay a pg_dump backup through psql. The file must live in BACKUP_DIR.
The current database contents are replaced.

Examples:
  caseloadctl restore --file caseload_backup_20251006_213000.sql`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func withMaintenance(cmd *cobra.Command, fn func(context.Context, *service.MaintenanceService) error) error {
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

	maintenance, err := app.NewMaintenance(cfg, db, logr)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), maintenanceTimeout)
	defer cancel()
	return fn(ctx, maintenance)
}

func runBackup(cmd *cobra.Command, _ []string) error {
	return withMaintenance(cmd, func(ctx context.Context, m *service.MaintenanceService) error {
		result, err := m.Backup(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s (%d bytes)\n", result.File, result.Size)
		for _, name := range result.Pruned {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed old backup: %s\n", name)
		}
		return nil
	})
}

func runRestore(cmd *cobra.Command, _ []string) error {
	return withMaintenance(cmd, func(ctx context.Context, m *service.MaintenanceService) error {
		if err := m.Restore(ctx, restoreFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s\n", restoreFile)
		return nil
	})
}
