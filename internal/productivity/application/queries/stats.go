package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// ProductivityStatsQuery summarizes the tasks created in [Start, End).
type ProductivityStatsQuery struct {
	UserID uuid.UUID
	Start  time.Time
	End    time.Time
}

// ProductivityStats counts tasks per status and measures how long
// completed ones took from creation to completion.
type ProductivityStats struct {
	Total             int            `json:"total"`
	ByStatus          map[string]int `json:"by_status"`
	Completed         int            `json:"completed"`
	CompletionRate    float64        `json:"completion_rate"`
	AvgCompletionTime time.Duration  `json:"avg_completion_time"`
	Overdue           int            `json:"overdue"`
}

// ProductivityStatsHandler handles the ProductivityStatsQuery.
type ProductivityStatsHandler struct {
	taskRepo task.Repository
	now      func() time.Time
}

// NewProductivityStatsHandler creates a new ProductivityStatsHandler.
func NewProductivityStatsHandler(taskRepo task.Repository) *ProductivityStatsHandler {
	return &ProductivityStatsHandler{taskRepo: taskRepo, now: time.Now}
}

// Handle executes the ProductivityStatsQuery.
func (h *ProductivityStatsHandler) Handle(ctx context.Context, query ProductivityStatsQuery) (*ProductivityStats, error) {
	tasks, err := h.taskRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	stats := &ProductivityStats{ByStatus: make(map[string]int)}
	var spent time.Duration
	for _, t := range tasks {
		created := t.CreatedAt()
		if created.Before(query.Start) || !created.Before(query.End) {
			continue
		}
		stats.Total++
		stats.ByStatus[t.Status().String()]++
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.IsCompleted() && t.CompletedAt() != nil {
			stats.Completed++
			spent += t.CompletedAt().Sub(created)
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}
	if stats.Completed > 0 {
		stats.AvgCompletionTime = spent / time.Duration(stats.Completed)
	}
	return stats, nil
}
