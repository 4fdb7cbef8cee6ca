package queries

import (
	"context"
	"slices"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// ListOverdueQuery lists unfinished tasks whose due date has passed.
type ListOverdueQuery struct {
	UserID uuid.UUID
	// Now defaults to the current time.
	Now time.Time
}

// ListOverdueHandler handles the ListOverdueQuery.
type ListOverdueHandler struct {
	taskRepo task.Repository
}

// NewListOverdueHandler creates a new ListOverdueHandler.
func NewListOverdueHandler(taskRepo task.Repository) *ListOverdueHandler {
	return &ListOverdueHandler{taskRepo: taskRepo}
}

// Handle returns overdue tasks, most overdue first.
func (h *ListOverdueHandler) Handle(ctx context.Context, query ListOverdueQuery) ([]TaskDTO, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	tasks, err := h.taskRepo.FindActive(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	tasks = slices.DeleteFunc(tasks, func(t *task.Task) bool { return !t.IsOverdue(now) })
	slices.SortStableFunc(tasks, func(a, b *task.Task) int { return a.DueDate().Compare(*b.DueDate()) })
	return toTaskDTOs(tasks), nil
}

// ListUpcomingQuery lists unfinished tasks due within the next Days days.
type ListUpcomingQuery struct {
	UserID uuid.UUID
	// Days defaults to 7.
	Days int
	Now  time.Time
}

// ListUpcomingHandler handles the ListUpcomingQuery.
type ListUpcomingHandler struct {
	taskRepo task.Repository
}

// NewListUpcomingHandler creates a new ListUpcomingHandler.
func NewListUpcomingHandler(taskRepo task.Repository) *ListUpcomingHandler {
	return &ListUpcomingHandler{taskRepo: taskRepo}
}

// Handle returns tasks due in [now, now+days), soonest first.
func (h *ListUpcomingHandler) Handle(ctx context.Context, query ListUpcomingQuery) ([]TaskDTO, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	days := query.Days
	if days <= 0 {
		days = 7
	}
	tasks, err := h.taskRepo.FindDueBetween(ctx, query.UserID, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return toTaskDTOs(tasks), nil
}
