package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/config"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/container"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Initialize dependency injection container
	app, err := container.NewContainer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer func() {
		if err := app.Close(ctx); err != nil {
			log.WithError(err).Error("error closing application")
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := app.Server.Start(); err != nil {
			log.WithError(err).Error("server error")
			quit <- syscall.SIGTERM
		}
	}()

	log.WithFields(logrus.Fields{
		"storage": cfg.Storage.Type,
		"mirror":  cfg.Mirror.Type,
		"env":     cfg.Server.Env,
	}).Info("server started, press Ctrl+C to stop")

	// Wait for interrupt signal
	<-quit

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
		return
	}

	log.Info("server exited properly")
}
