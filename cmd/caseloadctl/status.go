package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/slp-caseload/internal/service"
)

var recentBackups int

func init() {
	statusCmd.Flags().IntVar(&recentBackups, "backups", 5, "number of recent backups to list")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database health, row counts and recent backups",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	return withMaintenance(cmd, func(ctx context.Context, m *service.MaintenanceService) error {
		status, err := m.Status(ctx, recentBackups)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s (%.1f MB)\n\n", status.Database, float64(status.SizeBytes)/(1<<20))

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TABLE\tROWS")
		for _, t := range status.Tables {
			fmt.Fprintf(w, "%s\t%d\n", t.Table, t.Rows)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nRecent backups:\n")
		if len(status.RecentBackups) == 0 {
			fmt.Fprintln(out, "  none")
		}
		for _, b := range status.RecentBackups {
			fmt.Fprintf(out, "  %s  %s  %d bytes\n", b.Modified.Format("2006-01-02 15:04"), b.Name, b.Size)
		}
		return nil
	})
}
