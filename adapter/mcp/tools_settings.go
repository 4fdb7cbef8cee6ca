package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type hoursInput struct {
	Day   string `json:"day" jsonschema:"required"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Off   bool   `json:"off,omitempty"`
}

type prefsUpdateInput struct {
	Timezone            *string                 `json:"timezone,omitempty"`
	BreakEveryNTasks    *int                    `json:"break_every_n_tasks,omitempty"`
	BreakMinutes        *int                    `json:"break_minutes,omitempty"`
	Weights             *domain.PriorityWeights `json:"weights,omitempty"`
	DefaultDurationMin  *int                    `json:"default_duration_min,omitempty"`
	CalendarSyncEnabled *bool                   `json:"calendar_sync_enabled,omitempty"`
	AIEnabled           *bool                   `json:"ai_enabled,omitempty"`
}

func registerSettingsTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("prefs.get").
		Description("Get scheduling preferences: working hours, breaks, ranking weights and integrations").
		Handler(ts.getPreferences)
	srv.Tool("prefs.hours").
		Description("Set one weekday's working hours (HH:MM), or mark it off").
		Handler(ts.setHours)
	srv.Tool("prefs.update").
		Description("Change preferences. Only the fields present are changed.").
		Handler(ts.updatePreferences)
}

func (ts *toolset) getPreferences(ctx context.Context, _ struct{}) (*domain.Preferences, error) {
	return ts.app.PreferencesService.Get(ctx, ts.app.CurrentUserID)
}

func (ts *toolset) setHours(ctx context.Context, input hoursInput) (*domain.Preferences, error) {
	day, err := parseWeekday(input.Day)
	if err != nil {
		return nil, err
	}
	if input.Off {
		return ts.app.PreferencesService.ClearWorkingHours(ctx, ts.app.CurrentUserID, day)
	}
	if input.Start == "" || input.End == "" {
		return nil, errors.New("start and end are required unless off is set")
	}
	return ts.app.PreferencesService.SetWorkingHours(ctx, ts.app.CurrentUserID, day, input.Start, input.End)
}

// updatePreferences applies each present field in turn. A rejected field
// stops the update; earlier fields stay applied.
func (ts *toolset) updatePreferences(ctx context.Context, input prefsUpdateInput) (*domain.Preferences, error) {
	svc := ts.app.PreferencesService
	user := ts.app.CurrentUserID

	p, err := svc.Get(ctx, user)
	if err != nil {
		return nil, err
	}
	if input.Timezone != nil {
		if p, err = svc.SetTimezone(ctx, user, *input.Timezone); err != nil {
			return nil, err
		}
	}
	if input.BreakEveryNTasks != nil || input.BreakMinutes != nil {
		every, length := p.BreakPolicy.EveryNTasks, p.BreakPolicy.Duration
		if input.BreakEveryNTasks != nil {
			every = *input.BreakEveryNTasks
		}
		if input.BreakMinutes != nil {
			length = time.Duration(*input.BreakMinutes) * time.Minute
		}
		if p, err = svc.SetBreakPolicy(ctx, user, every, length); err != nil {
			return nil, err
		}
	}
	if input.Weights != nil {
		if p, err = svc.SetWeights(ctx, user, *input.Weights); err != nil {
			return nil, err
		}
	}
	if input.DefaultDurationMin != nil {
		if p, err = svc.SetDefaultEventDuration(ctx, user, time.Duration(*input.DefaultDurationMin)*time.Minute); err != nil {
			return nil, err
		}
	}
	if input.CalendarSyncEnabled != nil {
		if p, err = svc.SetCalendarSync(ctx, user, *input.CalendarSyncEnabled); err != nil {
			return nil, err
		}
	}
	if input.AIEnabled != nil {
		if p, err = svc.SetAIEnabled(ctx, user, *input.AIEnabled); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
