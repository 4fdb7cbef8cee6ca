// Package app wires configuration, storage and collaborators into the
// handlers used by the CLI, the worker and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	advisorLLM "github.com/felixgeelhaar/cadence/internal/advisor/infrastructure/llm"
	calendarDomain "github.com/felixgeelhaar/cadence/internal/calendar/domain"
	calendarSetup "github.com/felixgeelhaar/cadence/internal/calendar/setup"
	prefsApp "github.com/felixgeelhaar/cadence/internal/preferences/application"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	scheduleCommands "github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/cadence/internal/scheduling/application/queries"
	schedulerServices "github.com/felixgeelhaar/cadence/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/lock"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	*Repositories

	// Redis is nil when REDIS_URL is unset or unreachable.
	RedisClient *redis.Client

	EventPublisher eventbus.Publisher
	Locker         lock.Locker

	// Observability
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Health   *observability.HealthRegistry

	// Collaborators; either may be nil.
	Calendar      schedulingDomain.BusyTimeProvider
	CalendarGuard *resilience.Guard
	Advisor       schedulingDomain.Advisor
	AdvisorGuard  *resilience.Guard

	// Preferences
	PreferencesService *prefsApp.Service

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
	ScheduleBuilder         *schedulerServices.ScheduleBuilder
	ScheduleDayHandler      *scheduleCommands.ScheduleDayHandler
	ReprioritizeHandler     *scheduleCommands.ReprioritizeHandler
	CommitSuggestionHandler *scheduleCommands.CommitSuggestionHandler
	FindFreeTimeHandler     *scheduleQueries.FindFreeTimeHandler

	// Outbox Processor
	OutboxProcessor *outbox.Processor

	closers []func() error
}

// NewContainer creates and wires all dependencies. The configured user's
// preferences are created with defaults on first start.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		UserID: cfg.ParsedUserID(),
	}

	conn, err := OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, conn.Close)
	c.Repositories = NewRepositories(conn)

	c.Registry = prometheus.NewRegistry()
	if c.Metrics, err = observability.NewMetrics(c.Registry); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	c.Health = observability.NewHealthRegistry(cfg.ExternalTimeout)
	c.Health.Register("database", conn.Ping)

	c.connectRedis(ctx)
	c.connectPublisher()

	if c.RedisClient != nil {
		c.Locker = lock.NewRedisLocker(c.RedisClient, "cadence:lock:", cfg.LockTTL, logger)
	} else {
		c.Locker = lock.NewMemoryLocker()
	}

	if err := c.wireCollaborators(); err != nil {
		c.Close()
		return nil, err
	}
	c.wireHandlers()

	if _, err := c.PreferencesService.EnsureDefaults(ctx, c.UserID); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	logger.Info("container ready",
		"user_id", c.UserID,
		"driver", conn.Driver(),
		"calendar", cfg.CalendarProvider,
		"advisor", c.Advisor != nil,
		"redis", c.RedisClient != nil,
	)
	return c, nil
}

// connectRedis is best effort; without Redis the lock is in-process and
// busy time is not cached.
func (c *Container) connectRedis(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, using in-process locks", "error", err)
		return
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		c.Logger.Warn("Redis not available, using in-process locks", "error", err)
		return
	}
	c.RedisClient = client
	c.closers = append(c.closers, client.Close)
	c.Health.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	c.Logger.Info("connected to Redis")
}

func (c *Container) connectPublisher() {
	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = newLocalBus(c.Logger)
		return
	}
	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		c.Logger.Warn("RabbitMQ not available, delivering events in-process", "error", err)
		c.EventPublisher = newLocalBus(c.Logger)
		return
	}
	c.EventPublisher = publisher
}

func (c *Container) wireCollaborators() error {
	cfg := c.Config

	guardConfig := resilience.DefaultConfig()
	guardConfig.CallTimeout = cfg.ExternalTimeout
	guardConfig.OpenTimeout = cfg.BreakerCooldown
	if cfg.BreakerThreshold > 0 {
		guardConfig.FailureThreshold = uint32(cfg.BreakerThreshold)
	} else {
		guardConfig.BreakerEnabled = false
	}

	provider, err := calendarDomain.ParseProviderType(cfg.CalendarProvider)
	if err != nil {
		return err
	}
	c.Calendar, err = calendarSetup.NewBusyTimeProvider(calendarSetup.ProviderConfig{
		Provider: provider,
		Google: calendarSetup.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
			CalendarID:   cfg.GoogleCalendarID,
		},
		CalDAV: calendarSetup.CalDAVConfig{
			URL:          cfg.CalDAVURL,
			Username:     cfg.CalDAVUsername,
			Password:     cfg.CalDAVPassword,
			CalendarPath: cfg.CalDAVCalendarPath,
		},
		Redis:    c.RedisClient,
		CacheTTL: cfg.BusyCacheTTL,
		Logger:   c.Logger.With("component", "calendar"),
	})
	if err != nil {
		return fmt.Errorf("failed to configure calendar: %w", err)
	}
	if c.Calendar != nil {
		c.CalendarGuard = resilience.NewGuard(scheduleCommands.CollaboratorCalendar, guardConfig, c.Metrics, c.Logger)
	}

	if cfg.AdvisorURL != "" {
		advisor, err := advisorLLM.NewAdvisor(advisorLLM.Config{
			BaseURL:       cfg.AdvisorURL,
			APIKey:        cfg.AdvisorAPIKey,
			Model:         cfg.AdvisorModel,
			RatePerSecond: cfg.AdvisorRatePerSec,
		}, c.Logger.With("component", "advisor"))
		if err != nil {
			return fmt.Errorf("failed to configure advisor: %w", err)
		}
		c.Advisor = advisor
		c.AdvisorGuard = resilience.NewGuard(scheduleCommands.CollaboratorAdvisor, guardConfig, c.Metrics, c.Logger)
	}
	return nil
}

func (c *Container) wireHandlers() {
	logger := c.Logger

	c.PreferencesService = prefsApp.NewService(c.Preferences, logger)

	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.Tasks, c.Outbox, c.Preferences, c.UnitOfWork)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.Tasks, c.Outbox, c.UnitOfWork)
	c.StartTaskHandler = commands.NewStartTaskHandler(c.Tasks, c.Outbox, c.UnitOfWork)
	c.PostponeTaskHandler = commands.NewPostponeTaskHandler(c.Tasks, c.Outbox, c.UnitOfWork)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.Tasks, c.Outbox, c.UnitOfWork)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.Tasks, c.UnitOfWork)

	c.GetTaskHandler = queries.NewGetTaskHandler(c.Tasks)
	c.ListTasksHandler = queries.NewListTasksHandler(c.Tasks)
	c.ListOverdueHandler = queries.NewListOverdueHandler(c.Tasks)
	c.ListUpcomingHandler = queries.NewListUpcomingHandler(c.Tasks)
	c.StatsHandler = queries.NewProductivityStatsHandler(c.Tasks)

	c.ScheduleBuilder = schedulerServices.NewScheduleBuilder(
		schedulerServices.NewPriorityRanker(),
		schedulerServices.NewSlotAllocator(),
		logger,
	)
	merger := schedulerServices.NewSuggestionMerger()
	c.ScheduleDayHandler = scheduleCommands.NewScheduleDayHandler(scheduleCommands.ScheduleDayDeps{
		Tasks:             c.Tasks,
		Preferences:       c.Preferences,
		Calendar:          c.Calendar,
		CalendarGuard:     c.CalendarGuard,
		Advisor:           c.Advisor,
		AdvisorGuard:      c.AdvisorGuard,
		Builder:           c.ScheduleBuilder,
		Merger:            merger,
		Locker:            c.Locker,
		Outbox:            c.Outbox,
		UnitOfWork:        c.UnitOfWork,
		Metrics:           c.Metrics,
		AdviceConcurrency: c.Config.AdvisorConcurrency,
	}, logger)
	c.ReprioritizeHandler = scheduleCommands.NewReprioritizeHandler(
		c.Tasks, c.Preferences, c.Outbox, c.UnitOfWork, c.Locker, c.Advisor, c.AdvisorGuard, logger,
	)
	c.CommitSuggestionHandler = scheduleCommands.NewCommitSuggestionHandler(c.Tasks, c.Outbox, c.UnitOfWork)
	c.FindFreeTimeHandler = scheduleQueries.NewFindFreeTimeHandler(c.Preferences, c.Calendar, c.CalendarGuard, logger)

	processorConfig := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		processorConfig.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		processorConfig.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxAttempts > 0 {
		processorConfig.MaxAttempts = c.Config.OutboxMaxAttempts
	}
	if c.Config.OutboxRetention > 0 {
		processorConfig.Retention = c.Config.OutboxRetention
	}
	c.OutboxProcessor = outbox.NewProcessor(c.Outbox, c.EventPublisher, processorConfig, c.Metrics, logger.With("component", "outbox"))
}

// Close releases every connection in reverse order of acquisition.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close publisher", "error", err)
		}
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("failed to close container", "error", err)
	}
}
