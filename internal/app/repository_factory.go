package app

import (
	"context"
	"fmt"
	"log/slog"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	prefsPersistence "github.com/felixgeelhaar/cadence/internal/preferences/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	productivityPersistence "github.com/felixgeelhaar/cadence/internal/productivity/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/config"
)

// Repositories groups the stores every entry point needs. All of them run
// on one connection and join the unit of work carried by the context.
type Repositories struct {
	Conn        database.Connection
	Tasks       task.Repository
	Preferences prefsDomain.Repository
	Outbox      outbox.Repository
	UnitOfWork  *database.UnitOfWork
}

// NewRepositories creates the repositories for conn.
func NewRepositories(conn database.Connection) *Repositories {
	return &Repositories{
		Conn:        conn,
		Tasks:       productivityPersistence.NewTaskRepository(conn),
		Preferences: prefsPersistence.NewPreferencesRepository(conn),
		Outbox:      outbox.NewSQLRepository(conn),
		UnitOfWork:  database.NewUnitOfWork(conn),
	}
}

// OpenDatabase connects to the configured backend and brings its schema up
// to date.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	conn, err := database.Open(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("connected to database", "driver", conn.Driver())
	return conn, nil
}
