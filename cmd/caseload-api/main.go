package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/noah-isme/slp-caseload/internal/app"
	"github.com/noah-isme/slp-caseload/pkg/config"
	"github.com/noah-isme/slp-caseload/pkg/logger"
)

// @title SLP Caseload API
// @version 1.0.0
// @description Caseload, session scheduling and clinical documentation service for school speech-language pathologists
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("startup failed", "error", err)
	}
	defer server.Close()

	if err := server.Run(ctx); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
