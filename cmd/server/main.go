package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/app"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/config"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/logger"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/scheduler"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; fall back to a default one.
		log := logger.New(logger.Config{Level: "info"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()

	log.Info().
		Str("version", version.Version).
		Str("database", cfg.Database.Path).
		Bool("cache", a.Cache != nil).
		Msg("Application initialized")

	// Scheduled snapshots
	sched := scheduler.New(log)
	if cfg.Snapshot.Schedule != "" {
		job := service.SnapshotJob{Service: a.Services.Snapshot, Timeout: 2 * time.Minute}
		if err := sched.AddJob(cfg.Snapshot.Schedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Snapshot.Schedule).Msg("Failed to schedule snapshot job")
		}
	}
	sched.Start()

	router := api.NewRouter(a.Services, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
