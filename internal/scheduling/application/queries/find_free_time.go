// Package queries answers read-only scheduling questions.
package queries

import (
	"context"
	"log/slog"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/google/uuid"
)

// TimeSlotDTO is one free stretch of a working day.
type TimeSlotDTO struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"duration_minutes"`
}

// FindFreeTimeQuery asks for the free intervals of one day.
type FindFreeTimeQuery struct {
	UserID uuid.UUID
	// Date names the calendar day in the user's timezone; its clock and
	// zone are ignored.
	Date time.Time
	// MinDuration drops shorter gaps.
	MinDuration time.Duration
}

// FindFreeTimeResult lists the free intervals of a day.
type FindFreeTimeResult struct {
	Day   time.Time     `json:"day"`
	Slots []TimeSlotDTO `json:"slots"`
	// Note explains an empty result.
	Note string `json:"note,omitempty"`
	// Degraded is set when the calendar could not be read.
	Degraded bool `json:"degraded"`
}

// FindFreeTimeHandler handles the FindFreeTimeQuery.
type FindFreeTimeHandler struct {
	prefsRepo prefsDomain.Repository
	calendar  schedulingDomain.BusyTimeProvider
	guard     *resilience.Guard
	logger    *slog.Logger
}

// NewFindFreeTimeHandler creates a new FindFreeTimeHandler. calendar may be
// nil, leaving the whole working window free.
func NewFindFreeTimeHandler(
	prefsRepo prefsDomain.Repository,
	calendar schedulingDomain.BusyTimeProvider,
	guard *resilience.Guard,
	logger *slog.Logger,
) *FindFreeTimeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FindFreeTimeHandler{prefsRepo: prefsRepo, calendar: calendar, guard: guard, logger: logger}
}

// Handle executes the FindFreeTimeQuery.
func (h *FindFreeTimeHandler) Handle(ctx context.Context, query FindFreeTimeQuery) (*FindFreeTimeResult, error) {
	prefs, err := h.prefsRepo.Get(ctx, query.UserID)
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

	y, m, d := query.Date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	result := &FindFreeTimeResult{Day: dayStart, Slots: []TimeSlotDTO{}}

	hours, ok := prefs.HoursFor(dayStart.Weekday())
	if !ok {
		result.Note = schedulingDomain.NoteNonWorkingDay
		return result, nil
	}
	if err := hours.Validate(); err != nil {
		result.Note = schedulingDomain.NoteNonWorkingDay + ": " + err.Error()
		return result, nil
	}
	working := schedulingDomain.NewInterval(hours.Start.On(dayStart, loc), hours.End.On(dayStart, loc))

	var busy []schedulingDomain.Interval
	if h.calendar != nil && prefs.CalendarSyncEnabled {
		day := schedulingDomain.NewInterval(dayStart, dayStart.AddDate(0, 0, 1))
		busy, err = resilience.Call(ctx, h.guard, func(ctx context.Context) ([]schedulingDomain.Interval, error) {
			return h.calendar.BusyIntervals(ctx, query.UserID, day)
		})
		if err != nil {
			h.logger.Warn("calendar unavailable, reporting working hours as free",
				"user_id", query.UserID,
				"error", schedulingDomain.NewExternalServiceError("calendar", err),
			)
			busy = nil
			result.Degraded = true
		}
	}

	for _, iv := range schedulingDomain.FreeIntervals(working, busy) {
		if iv.Duration() < query.MinDuration {
			continue
		}
		result.Slots = append(result.Slots, TimeSlotDTO{
			Start:       iv.Start,
			End:         iv.End,
			DurationMin: int(iv.Duration().Minutes()),
		})
	}
	return result, nil
}
