package queries

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID uuid.UUID
	// Status is a status name, "active" (everything not completed) or
	// "all". Empty means active.
	Status   string
	Priority string
	Tag      string
	// SortBy is "priority", "due_date" or "created_at" (default).
	SortBy string
	Limit  int
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var (
		tasks []*task.Task
		err   error
	)
	switch query.Status {
	case "", "active":
		tasks, err = h.taskRepo.FindActive(ctx, query.UserID)
	default:
		tasks, err = h.taskRepo.FindByUserID(ctx, query.UserID)
	}
	if err != nil {
		return nil, err
	}

	tasks = slices.DeleteFunc(tasks, func(t *task.Task) bool {
		if query.Status != "" && query.Status != "active" && query.Status != "all" && t.Status().String() != query.Status {
			return true
		}
		if query.Priority != "" && !strings.EqualFold(t.Priority().String(), query.Priority) {
			return true
		}
		return query.Tag != "" && !slices.Contains(t.Tags(), query.Tag)
	})

	switch query.SortBy {
	case "priority":
		slices.SortStableFunc(tasks, func(a, b *task.Task) int {
			return cmp.Compare(b.Priority(), a.Priority())
		})
	case "due_date":
		slices.SortStableFunc(tasks, func(a, b *task.Task) int {
			return compareDue(a.DueDate(), b.DueDate())
		})
	default:
		slices.SortStableFunc(tasks, func(a, b *task.Task) int {
			return a.CreatedAt().Compare(b.CreatedAt())
		})
	}

	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}
	return toTaskDTOs(tasks), nil
}

// compareDue orders dated tasks before undated ones.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
