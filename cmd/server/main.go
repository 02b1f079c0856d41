package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/peerscore/internal/config"
	"github.com/aristath/peerscore/internal/modules/scoring"
	tuningconfig "github.com/aristath/peerscore/internal/modules/scoring/config"
	"github.com/aristath/peerscore/internal/server"
	"github.com/aristath/peerscore/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting peerscore")

	// Resolve scoring tuning: defaults unless a TOML override is configured
	tuning := scoring.DefaultTuning()
	if cfg.TuningPath != "" {
		loader := tuningconfig.NewLoader(log)
		tuning, err = loader.LoadFromFile(cfg.TuningPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load scoring tuning")
		}
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Config:  cfg,
		Tuning:  tuning,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
