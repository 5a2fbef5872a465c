package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cadence-tools/cadenced/internal/api"
	"github.com/cadence-tools/cadenced/internal/config"
	"github.com/cadence-tools/cadenced/internal/handlers"
	"github.com/cadence-tools/cadenced/internal/logging"
	"github.com/cadence-tools/cadenced/internal/middleware"
	"github.com/cadence-tools/cadenced/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	// CLI flags
	configPath := pflag.StringP("config", "c", "config.yaml", "Path to config file")
	version := pflag.BoolP("version", "v", false, "Print version and exit")
	port := pflag.IntP("port", "p", 8080, "HTTP server listen port")
	logLevel := pflag.StringP("log-level", "l", "info", "Log level (debug, info, warn, error)")

	pflag.Parse()

	if *version {
		fmt.Println("cadenced version 1.0.0")
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadWithPath(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Override config with CLI flags if set
	if pflag.Lookup("port").Changed {
		cfg.Server.Port = *port
	}
	if pflag.Lookup("log-level").Changed {
		cfg.Logging.Level = *logLevel
	}

	// Initialize logger
	logger, err := logging.InitLogger(logging.LoggingConfig(cfg.Logging))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Configuration loaded", zap.Any("config", cfg))

	// Initialize repository and handlers
	scheduleRepo := repository.NewScheduleRepository(logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo)
	occurrenceHandler := handlers.NewOccurrenceHandler(
		scheduleRepo,
		cfg.Occurrences.DefaultCount,
		cfg.Occurrences.MaxCount,
	)

	// Initialize router
	router := gin.Default()
	router.Use(middleware.RequestIDMiddleware(logger))
	api.SetupRoutes(router, scheduleHandler, occurrenceHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Fatal("Server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("Starting server", zap.Int("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}
