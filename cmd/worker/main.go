package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/cadence/internal/app"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(observability.DefaultLogConfig()).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)).
		With("component", "worker")
	logger.Info("starting cadence worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			handler := observability.NewHandler(container.Registry, container.Health)
			if err := observability.Serve(ctx, cfg.MetricsAddr, handler, logger); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	go logStats(ctx, container, logger)

	logger.Info("starting outbox processor",
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_attempts", cfg.OutboxMaxAttempts,
	)
	if err := container.OutboxProcessor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("outbox processor stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// logStats reports delivery counters once a minute.
func logStats(ctx context.Context, c *app.Container, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := c.OutboxProcessor.Stats()
			logger.Info("outbox stats",
				"published", stats.Published,
				"failed", stats.Failed,
				"dead", stats.Dead,
				"last_run", stats.LastRun,
				"last_error", stats.LastError,
			)
		}
	}
}
