package cli

import (
	"context"
	"errors"
	"time"

	internalApp "github.com/felixgeelhaar/cadence/internal/app"
	prefsApp "github.com/felixgeelhaar/cadence/internal/preferences/application"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	scheduleCommands "github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/cadence/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ErrNotInitialized is returned by commands run without a database.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	CurrentUserID uuid.UUID

	// Task Command Handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	StartTaskHandler    *commands.StartTaskHandler
	PostponeTaskHandler *commands.PostponeTaskHandler
	UpdateTaskHandler   *commands.UpdateTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Task Query Handlers
	GetTaskHandler      *queries.GetTaskHandler
	ListTasksHandler    *queries.ListTasksHandler
	ListOverdueHandler  *queries.ListOverdueHandler
	ListUpcomingHandler *queries.ListUpcomingHandler
	StatsHandler        *queries.ProductivityStatsHandler

	// Scheduling
	ScheduleDayHandler      *scheduleCommands.ScheduleDayHandler
	ReprioritizeHandler     *scheduleCommands.ReprioritizeHandler
	CommitSuggestionHandler *scheduleCommands.CommitSuggestionHandler
	FindFreeTimeHandler     *scheduleQueries.FindFreeTimeHandler

	// Settings
	PreferencesService *prefsApp.Service

	OutboxProcessor *outbox.Processor
}

// NewApp copies the handlers out of a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		CurrentUserID: c.UserID,

		CreateTaskHandler:   c.CreateTaskHandler,
		CompleteTaskHandler: c.CompleteTaskHandler,
		StartTaskHandler:    c.StartTaskHandler,
		PostponeTaskHandler: c.PostponeTaskHandler,
		UpdateTaskHandler:   c.UpdateTaskHandler,
		DeleteTaskHandler:   c.DeleteTaskHandler,

		GetTaskHandler:      c.GetTaskHandler,
		ListTasksHandler:    c.ListTasksHandler,
		ListOverdueHandler:  c.ListOverdueHandler,
		ListUpcomingHandler: c.ListUpcomingHandler,
		StatsHandler:        c.StatsHandler,

		ScheduleDayHandler:      c.ScheduleDayHandler,
		ReprioritizeHandler:     c.ReprioritizeHandler,
		CommitSuggestionHandler: c.CommitSuggestionHandler,
		FindFreeTimeHandler:     c.FindFreeTimeHandler,

		PreferencesService: c.PreferencesService,
		OutboxProcessor:    c.OutboxProcessor,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

func withStart(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, commandStartKey{}, t)
}

func startFrom(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(commandStartKey{}).(time.Time)
	return t, ok
}
