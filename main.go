package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetshop/internal/app"
	"fleetshop/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := configureLogging(cfg); err != nil {
		log.WithError(err).Fatal("invalid logging configuration")
	}

	// --- Storage, broker, services and routes ---
	application, err := app.New(cfg, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}

	// --- Start HTTP Server ---
	go func() {
		if err := application.Listen(); err != nil {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := application.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server gracefully stopped")
}

// configureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logger.
func configureLogging(cfg config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
