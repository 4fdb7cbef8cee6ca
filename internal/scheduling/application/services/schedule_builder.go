package services

import (
	"log/slog"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BuildOption tunes a single Build call.
type BuildOption func(*buildOptions)

type buildOptions struct {
	notBefore time.Time
	signals   map[uuid.UUID]RankSignals
}

// WithNotBefore keeps every slot at or after t, used when planning the
// rest of today.
func WithNotBefore(t time.Time) BuildOption {
	return func(o *buildOptions) { o.notBefore = t }
}

// WithRankSignals supplies effort and dependency inputs for ranking.
func WithRankSignals(signals map[uuid.UUID]RankSignals) BuildOption {
	return func(o *buildOptions) { o.signals = signals }
}

// ScheduleBuilder turns tasks, preferences and busy time into a daily plan.
// It performs no I/O and holds no locks; callers serialize builds per user.
type ScheduleBuilder struct {
	ranker    *PriorityRanker
	allocator *SlotAllocator
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduleBuilder creates a builder.
func NewScheduleBuilder(ranker *PriorityRanker, allocator *SlotAllocator, logger *slog.Logger) *ScheduleBuilder {
	if ranker == nil {
		ranker = NewPriorityRanker()
	}
	if allocator == nil {
		allocator = NewSlotAllocator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleBuilder{
		ranker:    ranker,
		allocator: allocator,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for urgency scoring.
func (b *ScheduleBuilder) WithClock(now func() time.Time) *ScheduleBuilder {
	b.now = now
	return b
}

// Build plans the calendar date of day for userID.
//
// Missing preferences return ErrPreferencesNotFound and invalid ones a
// ValidationError. A weekday without working hours yields an empty result
// noted as a non-working day; a broken window does the same with the
// validation failure appended to the note. Completed tasks are ignored.
func (b *ScheduleBuilder) Build(
	userID uuid.UUID,
	day time.Time,
	tasks []*task.Task,
	prefs *prefsDomain.Preferences,
	busy []schedulingDomain.Interval,
	opts ...BuildOption,
) (*schedulingDomain.ScheduleResult, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if prefs == nil {
		return nil, prefsDomain.ErrPreferencesNotFound
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	loc, err := prefs.Location()
	if err != nil {
		return nil, err
	}

	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	hours, ok := prefs.HoursFor(dayStart.Weekday())
	if !ok {
		return schedulingDomain.EmptyResult(userID, dayStart, schedulingDomain.NoteNonWorkingDay), nil
	}
	if err := hours.Validate(); err != nil {
		b.logger.Warn("skipping day with malformed working hours",
			"user_id", userID,
			"day", dayStart.Format(time.DateOnly),
			"error", err,
		)
		return schedulingDomain.EmptyResult(userID, dayStart, schedulingDomain.NoteNonWorkingDay+": "+err.Error()), nil
	}

	eligible := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted() {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return schedulingDomain.EmptyResult(userID, dayStart, schedulingDomain.NoteNoTasks), nil
	}

	working := schedulingDomain.NewInterval(hours.Start.On(dayStart, loc), hours.End.On(dayStart, loc))
	if o.notBefore.After(working.Start) {
		working.Start = o.notBefore
	}
	free := schedulingDomain.FreeIntervals(working, busy)

	ranked := b.ranker.RankWithSignals(eligible, prefs.PriorityWeights, b.now(), o.signals)
	ordered := make([]*task.Task, len(ranked))
	for i, rt := range ranked {
		ordered[i] = rt.Task
	}

	alloc := b.allocator.Allocate(ordered, free, prefs.BreakPolicy, prefs.DefaultEventDuration)

	result := &schedulingDomain.ScheduleResult{
		UserID:        userID,
		Day:           dayStart,
		Slots:         alloc.Slots,
		Unscheduled:   alloc.Unscheduled,
		FreeIntervals: free,
	}

	b.logger.Debug("schedule built",
		"user_id", userID,
		"day", dayStart.Format(time.DateOnly),
		"free_intervals", len(free),
		"scheduled", len(result.Slots),
		"unscheduled", len(result.Unscheduled),
	)
	return result, nil
}
