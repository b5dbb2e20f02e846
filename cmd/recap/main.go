package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/discord-recap/internal/config"
	"github.com/discord-recap/internal/models"
	"github.com/discord-recap/internal/pipeline"
	"github.com/discord-recap/internal/scheduler"
	"github.com/discord-recap/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	logger.Info().
		Str("environment", cfg.Environment).
		Int("page_size", cfg.PageSize).
		Int("concurrency", cfg.Concurrency).
		Str("output", cfg.OutputPath).
		Msg("Starting recap pipeline")

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
		cancel()
	}()

	// Initialize storage client
	logger.Info().Msg("Initializing Supabase client...")
	storageClient, err := storage.NewClient(
		cfg.SupabaseURL,
		cfg.SupabaseKey,
		storage.Options{
			Timeout:       time.Duration(cfg.SupabaseTimeout) * time.Second,
			PageSize:      cfg.PageSize,
			MessagesTable: cfg.MessagesTable,
			MembersTable:  cfg.MembersTable,
			ChannelsTable: cfg.ChannelsTable,
		},
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create storage client")
	}

	// Ping Supabase to verify connection
	if err := storageClient.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Supabase")
	}
	logger.Info().Msg("Supabase connection successful")

	runOnce := func(runCtx context.Context) error {
		return runPipeline(runCtx, storageClient, cfg, logger)
	}

	// Always compute once at startup
	if err := runOnce(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Pipeline run failed")
	}

	// Without a schedule this is a one-shot invocation
	if cfg.CronSchedule == "" {
		logger.Info().Msg("Done")
		return
	}

	sched, err := scheduler.New(cfg.CronSchedule, runOnce, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.CronSchedule).Msg("Failed to create scheduler")
	}

	logger.Info().Str("schedule", cfg.CronSchedule).Msg("Running on schedule. Press Ctrl+C to stop.")
	sched.Start(ctx)
}

// runPipeline executes one full pipeline run and persists the report
func runPipeline(ctx context.Context, storageClient *storage.Client, cfg *models.Config, logger zerolog.Logger) error {
	pipe := pipeline.New(storageClient, cfg, logger,
		pipeline.WithProgress(func(ev models.ProgressEvent) {
			if ev.Error != "" {
				logger.Error().Int("phase", ev.Phase).Str("label", ev.PhaseLabel).Str("error", ev.Error).Msg("Pipeline error")
				return
			}
			logger.Debug().
				Int("phase", ev.Phase).
				Str("label", ev.PhaseLabel).
				Int("phase_pct", ev.PhasePct).
				Int("overall_pct", ev.OverallPct).
				Msg("Progress")
		}),
		pipeline.WithPhaseComplete(func(phase int, snapshot models.Report) {
			logger.Info().Int("phase", phase).Msg("Phase checkpoint reached")
		}),
	)

	report, err := pipe.Run(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info().
		Str("path", cfg.OutputPath).
		Int("bytes", len(data)).
		Msg("Report written")
	return nil
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Configure output format
	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
