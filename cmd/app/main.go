package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymdesk/internal/app"
	"gymdesk/internal/clock"
	"gymdesk/internal/config"
	"gymdesk/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting gym front desk", "db", cfg.DBPath, "timezone", cfg.Location.String())

	application, err := app.New(cfg, clock.In(cfg.Location))
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	logger.Info("Database ready")

	if _, err := application.Services.Settings.Load(context.Background()); err != nil {
		logger.Error("Failed to load settings", "error", err)
	}

	if application.Scheduler != nil {
		application.Scheduler.Start()
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if err := application.Server.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := application.Close(shutdownCtx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}

	logger.Info("Stopped")
}
