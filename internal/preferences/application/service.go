// Package application manages a user's scheduling preferences.
package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/google/uuid"
)

// Service reads and edits preferences. Every edit is validated before it
// is stored.
type Service struct {
	repo   domain.Repository
	logger *slog.Logger
}

// NewService creates a preferences service.
func NewService(repo domain.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Get returns the stored preferences or ErrPreferencesNotFound.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	return s.repo.Get(ctx, userID)
}

// EnsureDefaults returns the stored preferences, creating the defaults on
// first use.
func (s *Service) EnsureDefaults(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	p, err := s.repo.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrPreferencesNotFound) {
		return nil, err
	}

	p = domain.DefaultPreferences(userID)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("created default preferences", "user_id", userID)
	return p, nil
}

// SetWorkingHours sets one weekday's window from "HH:MM" strings.
func (s *Service) SetWorkingHours(ctx context.Context, userID uuid.UUID, day time.Weekday, start, end string) (*domain.Preferences, error) {
	from, err := domain.ParseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseClock(end)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		return p.SetHours(day, domain.WorkingHours{Start: from, End: to})
	})
}

// ClearWorkingHours makes day a non-working day.
func (s *Service) ClearWorkingHours(ctx context.Context, userID uuid.UUID, day time.Weekday) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.ClearHours(day)
		return nil
	})
}

// SetBreakPolicy replaces the break policy. everyN of zero disables breaks.
func (s *Service) SetBreakPolicy(ctx context.Context, userID uuid.UUID, everyN int, length time.Duration) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.BreakPolicy = domain.BreakPolicy{EveryNTasks: everyN, Duration: length}
		return nil
	})
}

// SetWeights replaces the ranking weights.
func (s *Service) SetWeights(ctx context.Context, userID uuid.UUID, w domain.PriorityWeights) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.PriorityWeights = w
		return nil
	})
}

// SetTimezone changes the IANA zone used to interpret working hours.
func (s *Service) SetTimezone(ctx context.Context, userID uuid.UUID, tz string) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.Timezone = tz
		return nil
	})
}

// SetDefaultEventDuration changes the length used for unestimated tasks.
func (s *Service) SetDefaultEventDuration(ctx context.Context, userID uuid.UUID, d time.Duration) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.DefaultEventDuration = d
		return nil
	})
}

// SetCalendarSync turns busy-time lookups on or off.
func (s *Service) SetCalendarSync(ctx context.Context, userID uuid.UUID, enabled bool) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.CalendarSyncEnabled = enabled
		return nil
	})
}

// SetAIEnabled turns advisor suggestions on or off.
func (s *Service) SetAIEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (*domain.Preferences, error) {
	return s.update(ctx, userID, func(p *domain.Preferences) error {
		p.AIEnabled = enabled
		return nil
	})
}

func (s *Service) update(ctx context.Context, userID uuid.UUID, edit func(*domain.Preferences) error) (*domain.Preferences, error) {
	p, err := s.EnsureDefaults(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := edit(p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
