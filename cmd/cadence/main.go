package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	cliMCP "github.com/felixgeelhaar/cadence/adapter/cli/mcp"
	"github.com/felixgeelhaar/cadence/adapter/cli/prefs"
	"github.com/felixgeelhaar/cadence/adapter/cli/priority"
	"github.com/felixgeelhaar/cadence/adapter/cli/schedule"
	"github.com/felixgeelhaar/cadence/adapter/cli/task"
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

	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logCfg.ServiceVersion = cli.Version
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// The container is optional so that help and version work without a
	// database; data commands then fail with ErrNotInitialized.
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	}

	// Register commands
	cli.AddCommand(task.Cmd)
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(priority.Cmd)
	cli.AddCommand(prefs.Cmd)
	cli.AddCommand(cliMCP.Cmd)

	cli.Execute(ctx)

	// Flush the events this command produced so nothing waits for the worker.
	if container != nil && cfg.OutboxProcessorEnabled {
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelDrain()
		if err := container.OutboxProcessor.Drain(drainCtx); err != nil {
			logger.Warn("failed to flush outbox", "error", err)
		}
	}
}
