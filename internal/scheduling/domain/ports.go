package domain

import (
	"context"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// BusyTimeProvider reports when a user is already committed elsewhere.
type BusyTimeProvider interface {
	// BusyIntervals returns busy time overlapping rng. Intervals may be
	// unsorted and overlapping.
	BusyIntervals(ctx context.Context, userID uuid.UUID, rng Interval) ([]Interval, error)
}

// TaskSummary is the view of a task shared with an advisor.
type TaskSummary struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	EstimateMinutes int        `json:"estimateMinutes"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
}

// Summarize builds the advisor view of t.
func Summarize(t *task.Task) TaskSummary {
	return TaskSummary{
		ID:              t.ID(),
		Title:           t.Title(),
		Priority:        t.Priority().String(),
		Status:          t.Status().String(),
		EstimateMinutes: t.Estimate().Minutes(),
		DueDate:         t.DueDate(),
	}
}

// AdvisorContext is everything an advisor may look at besides the task.
type AdvisorContext struct {
	Now             time.Time                                 `json:"now"`
	Timezone        string                                    `json:"timezone"`
	WorkingHours    map[time.Weekday]prefsDomain.WorkingHours `json:"workingHours"`
	PeakHours       []prefsDomain.PeakWindow                  `json:"peakHours,omitempty"`
	PriorityWeights prefsDomain.PriorityWeights               `json:"priorityWeights"`
	ExistingTasks   []TaskSummary                             `json:"existingTasks"`
}

// NewAdvisorContext collects the advisor inputs for a user's task list.
func NewAdvisorContext(prefs *prefsDomain.Preferences, tasks []*task.Task, now time.Time) AdvisorContext {
	summaries := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		summaries = append(summaries, Summarize(t))
	}
	return AdvisorContext{
		Now:             now,
		Timezone:        prefs.Timezone,
		WorkingHours:    prefs.WorkingHours,
		PeakHours:       prefs.PeakHours,
		PriorityWeights: prefs.PriorityWeights,
		ExistingTasks:   summaries,
	}
}

// Advisor produces non-authoritative suggestions for a task.
type Advisor interface {
	Suggest(ctx context.Context, t *task.Task, ac AdvisorContext) (*Suggestion, error)
}
