package queries

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is the read model of a task.
type TaskDTO struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	EstimateMinutes int        `json:"estimate_minutes"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Category        string     `json:"category,omitempty"`
	Advisory        *Advisory  `json:"advisory,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Advisory is the read model of a task's advisory.
type Advisory struct {
	Priority      string    `json:"priority"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Insight       string    `json:"insight"`
}

// ToTaskDTO maps a task to its read model.
func ToTaskDTO(t *task.Task) TaskDTO {
	dto := TaskDTO{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		Status:          t.Status().String(),
		Priority:        t.Priority().String(),
		EstimateMinutes: t.Estimate().Minutes(),
		StartDate:       t.StartDate(),
		DueDate:         t.DueDate(),
		CompletedAt:     t.CompletedAt(),
		Tags:            t.Tags(),
		Category:        t.Category(),
		CreatedAt:       t.CreatedAt(),
	}
	if a := t.Advisory(); a != nil {
		dto.Advisory = &Advisory{Priority: a.Priority.String(), ScheduledTime: a.ScheduledTime, Insight: a.Insight}
	}
	return dto
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}
