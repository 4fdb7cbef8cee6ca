package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/lock"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/google/uuid"
)

// CollaboratorCalendar names the busy-time provider.
const CollaboratorCalendar = "calendar"

// ScheduleDayCommand asks for the plan of one calendar day.
type ScheduleDayCommand struct {
	UserID uuid.UUID
	// Date names the calendar day in the user's timezone; its clock and
	// zone are ignored.
	Date time.Time
	// WithAdvice annotates tasks with advisor suggestions first.
	WithAdvice bool
	// FromNow drops the part of today that has already passed.
	FromNow bool
}

// ScheduleDayResult is the plan plus the advisories attached on the way.
type ScheduleDayResult struct {
	Schedule   *schedulingDomain.ScheduleResult
	Advisories []services.AnnotatedTask
}

// ScheduleDayDeps are the collaborators of a ScheduleDayHandler. Calendar,
// Advisor, Outbox and Metrics are optional.
type ScheduleDayDeps struct {
	Tasks         task.Repository
	Preferences   prefsDomain.Repository
	Calendar      schedulingDomain.BusyTimeProvider
	CalendarGuard *resilience.Guard
	Advisor       schedulingDomain.Advisor
	AdvisorGuard  *resilience.Guard
	Builder       *services.ScheduleBuilder
	Merger        *services.SuggestionMerger
	Locker        lock.Locker
	Outbox        outbox.Repository
	UnitOfWork    sharedApplication.UnitOfWork
	Metrics       Metrics
	// AdviceConcurrency caps parallel advisor calls; defaults to 4.
	AdviceConcurrency int
}

// ScheduleDayHandler computes daily plans. Builds for the same user never
// run concurrently.
type ScheduleDayHandler struct {
	deps   ScheduleDayDeps
	advice *adviceCollector
	logger *slog.Logger
	now    func() time.Time
}

// NewScheduleDayHandler creates a new ScheduleDayHandler.
func NewScheduleDayHandler(deps ScheduleDayDeps, logger *slog.Logger) *ScheduleDayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Builder == nil {
		deps.Builder = services.NewScheduleBuilder(nil, nil, logger)
	}
	if deps.Merger == nil {
		deps.Merger = services.NewSuggestionMerger()
	}
	if deps.Locker == nil {
		deps.Locker = lock.NewMemoryLocker()
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.AdviceConcurrency <= 0 {
		deps.AdviceConcurrency = 4
	}
	h := &ScheduleDayHandler{deps: deps, logger: logger, now: time.Now}
	if deps.Advisor != nil {
		h.advice = &adviceCollector{
			advisor: deps.Advisor,
			guard:   deps.AdvisorGuard,
			merger:  deps.Merger,
			limit:   deps.AdviceConcurrency,
			logger:  logger,
		}
	}
	return h
}

// Handle executes the ScheduleDayCommand. Only missing or invalid
// preferences, storage failures and lock timeouts are errors; a failing
// calendar or advisor is recorded in Schedule.Degraded instead.
func (h *ScheduleDayHandler) Handle(ctx context.Context, cmd ScheduleDayCommand) (*ScheduleDayResult, error) {
	started := h.now()

	release, err := h.deps.Locker.Acquire(ctx, "schedule:"+cmd.UserID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	prefs, err := h.deps.Preferences.Get(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	loc, err := prefs.Location()
	if err != nil {
		return nil, err
	}

	tasks, err := h.deps.Tasks.FindActive(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	y, m, d := cmd.Date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	day := schedulingDomain.NewInterval(dayStart, dayStart.AddDate(0, 0, 1))

	var degraded []string
	busy, ok := h.busy(ctx, cmd.UserID, day, prefs)
	if !ok {
		degraded = append(degraded, CollaboratorCalendar)
	}

	var advisories []services.AnnotatedTask
	if cmd.WithAdvice && h.advice != nil && prefs.AIEnabled && len(tasks) > 0 {
		var failed int
		advisories, failed = h.advice.collect(ctx, tasks, schedulingDomain.NewAdvisorContext(prefs, tasks, started))
		if failed > 0 {
			degraded = append(degraded, CollaboratorAdvisor)
			h.deps.Metrics.CollaboratorFallback(CollaboratorAdvisor)
		}
	}

	var opts []services.BuildOption
	if cmd.FromNow {
		opts = append(opts, services.WithNotBefore(started))
	}
	result, err := h.deps.Builder.Build(cmd.UserID, dayStart, tasks, prefs, busy, opts...)
	if err != nil {
		return nil, err
	}
	for _, d := range degraded {
		result.MarkDegraded(d)
	}

	h.publish(ctx, result)
	h.deps.Metrics.ScheduleBuilt(result, h.now().Sub(started))

	h.logger.Info("day scheduled",
		"user_id", cmd.UserID,
		"day", dayStart.Format(time.DateOnly),
		"scheduled", len(result.Slots),
		"unscheduled", len(result.Unscheduled),
		"degraded", result.Degraded,
	)
	return &ScheduleDayResult{Schedule: result, Advisories: advisories}, nil
}

// busy fetches busy time for the day. ok is false when the provider failed
// and the plan continues without busy time.
func (h *ScheduleDayHandler) busy(ctx context.Context, userID uuid.UUID, day schedulingDomain.Interval, prefs *prefsDomain.Preferences) ([]schedulingDomain.Interval, bool) {
	if h.deps.Calendar == nil || !prefs.CalendarSyncEnabled {
		return nil, true
	}
	if _, working := prefs.HoursFor(day.Start.Weekday()); !working {
		return nil, true
	}

	busy, err := resilience.Call(ctx, h.deps.CalendarGuard, func(ctx context.Context) ([]schedulingDomain.Interval, error) {
		return h.deps.Calendar.BusyIntervals(ctx, userID, day)
	})
	if err != nil {
		h.logger.Warn("calendar unavailable, planning without busy time",
			"user_id", userID,
			"error", schedulingDomain.NewExternalServiceError(CollaboratorCalendar, err),
		)
		h.deps.Metrics.CollaboratorFallback(CollaboratorCalendar)
		return nil, false
	}
	return busy, true
}

// publish records the plan in the outbox. The plan is returned even when
// this fails.
func (h *ScheduleDayHandler) publish(ctx context.Context, result *schedulingDomain.ScheduleResult) {
	if h.deps.Outbox == nil || h.deps.UnitOfWork == nil {
		return
	}
	event := schedulingDomain.NewScheduleGenerated(result, h.now())
	meta := sharedApplication.NewEventMetadata(ctx, result.UserID)
	err := sharedApplication.WithUnitOfWork(ctx, h.deps.UnitOfWork, func(txCtx context.Context) error {
		return outbox.Append(txCtx, h.deps.Outbox, meta, event)
	})
	if err != nil {
		h.logger.Error("failed to record schedule event", "user_id", result.UserID, "error", err)
	}
}
