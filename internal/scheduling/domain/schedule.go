package domain

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
)

// Notes attached to results that carry no slots.
const (
	NoteNonWorkingDay = "non-working day"
	NoteNoTasks       = "no tasks to schedule"
)

// ScheduledSlot is one task placed into a free interval.
type ScheduledSlot struct {
	TaskID   uuid.UUID              `json:"task_id"`
	Title    string                 `json:"title"`
	Priority value_objects.Priority `json:"priority"`
	Start    time.Time              `json:"start"`
	End      time.Time              `json:"end"`
}

// Interval returns the slot's time range.
func (s ScheduledSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Duration returns the slot length.
func (s ScheduledSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// ScheduleResult is the plan for one user and one day. It is built fresh on
// every request and is never persisted by the engine.
type ScheduleResult struct {
	UserID uuid.UUID
	Day    time.Time
	// Slots are in chronological order.
	Slots []ScheduledSlot
	// Unscheduled keeps rank order.
	Unscheduled []*task.Task
	// FreeIntervals are the gaps the allocator worked with.
	FreeIntervals []Interval
	Note          string
	// Degraded lists collaborators that failed and were replaced by a fallback.
	Degraded []string
}

// EmptyResult returns a result with no slots and the given note.
func EmptyResult(userID uuid.UUID, day time.Time, note string) *ScheduleResult {
	return &ScheduleResult{
		UserID:      userID,
		Day:         day,
		Slots:       []ScheduledSlot{},
		Unscheduled: []*task.Task{},
		Note:        note,
	}
}

// ScheduledTime sums the length of every slot.
func (r *ScheduleResult) ScheduledTime() time.Duration {
	var total time.Duration
	for _, s := range r.Slots {
		total += s.Duration()
	}
	return total
}

// Utilization is the share of free time filled with tasks, in [0,1].
func (r *ScheduleResult) Utilization() float64 {
	free := TotalDuration(r.FreeIntervals)
	if free == 0 {
		return 0
	}
	return float64(r.ScheduledTime()) / float64(free)
}

// MarkDegraded records that a collaborator fell back.
func (r *ScheduleResult) MarkDegraded(service string) {
	r.Degraded = append(r.Degraded, service)
}
