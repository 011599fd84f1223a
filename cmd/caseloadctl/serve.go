package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/slp-caseload/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the caseload HTTP API until interrupted.

Examples:
  # Serve on the configured PORT
  caseloadctl serve

  # Serve on another port
  PORT=9000 caseloadctl serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.Run(ctx)
}
