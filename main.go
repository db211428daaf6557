package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printshop/internal/app"
	"printshop/internal/config"
	"printshop/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize application", zap.Error(err))
	}
	a.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Listen()
	}()

	// Wait for an interrupt signal or a server failure.
	select {
	case <-ctx.Done():
		zl.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			zl.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		zl.Error("Error during shutdown", zap.Error(err))
	}
	zl.Info("Server gracefully stopped")
}
