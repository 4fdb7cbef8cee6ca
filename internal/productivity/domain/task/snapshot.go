package task

import (
	"slices"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// Snapshot is the flat persisted form of a Task.
type Snapshot struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Description     string
	Status          Status
	Priority        value_objects.Priority
	EstimateMinutes int
	StartDate       *time.Time
	DueDate         *time.Time
	CompletedAt     *time.Time
	Tags            []string
	Category        string
	CalendarEventID string
	Advisory        *Advisory
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Snapshot flattens the task for storage.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:              t.ID(),
		UserID:          t.userID,
		Title:           t.title,
		Description:     t.description,
		Status:          t.status,
		Priority:        t.priority,
		EstimateMinutes: t.estimate.Minutes(),
		StartDate:       cloneTime(t.startDate),
		DueDate:         cloneTime(t.dueDate),
		CompletedAt:     cloneTime(t.completedAt),
		Tags:            slices.Clone(t.tags),
		Category:        t.category,
		CalendarEventID: t.calendarEventID,
		Advisory:        t.Advisory(),
		Version:         t.Version(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}
}

// Restore rebuilds a task from a snapshot without recording events. An
// unset or invalid estimate falls back to the default.
func Restore(s Snapshot) *Task {
	estimate, err := value_objects.DurationFromMinutes(s.EstimateMinutes)
	if err != nil {
		estimate = value_objects.MustNewDuration(value_objects.DefaultEstimate)
	}
	var advisory *Advisory
	if s.Advisory != nil {
		a := *s.Advisory
		advisory = &a
	}
	return &Task{
		AggregateRoot:   domain.RestoreAggregateRoot(domain.RestoreEntity(s.ID, s.CreatedAt, s.UpdatedAt), s.Version),
		userID:          s.UserID,
		title:           s.Title,
		description:     s.Description,
		status:          s.Status,
		priority:        s.Priority,
		estimate:        estimate,
		startDate:       cloneTime(s.StartDate),
		dueDate:         cloneTime(s.DueDate),
		completedAt:     cloneTime(s.CompletedAt),
		tags:            slices.Clone(s.Tags),
		category:        s.Category,
		calendarEventID: s.CalendarEventID,
		advisory:        advisory,
	}
}
