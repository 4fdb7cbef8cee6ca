package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "DailySchedule"

	RoutingKeyScheduleGenerated = "scheduling.day.generated"
)

// PlannedSlot is the wire form of a scheduled slot inside an event.
type PlannedSlot struct {
	TaskID uuid.UUID `json:"task_id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// ScheduleGenerated is emitted after a daily plan has been computed. The
// aggregate ID is the user the plan belongs to.
type ScheduleGenerated struct {
	sharedDomain.BaseEvent
	Day         string        `json:"day"`
	Slots       []PlannedSlot `json:"slots"`
	Unscheduled []uuid.UUID   `json:"unscheduled"`
	Note        string        `json:"note,omitempty"`
	Degraded    []string      `json:"degraded,omitempty"`
}

// NewScheduleGenerated builds the event from a result.
func NewScheduleGenerated(result *ScheduleResult, at time.Time) ScheduleGenerated {
	slots := make([]PlannedSlot, 0, len(result.Slots))
	for _, s := range result.Slots {
		slots = append(slots, PlannedSlot{TaskID: s.TaskID, Title: s.Title, Start: s.Start, End: s.End})
	}
	unscheduled := make([]uuid.UUID, 0, len(result.Unscheduled))
	for _, t := range result.Unscheduled {
		unscheduled = append(unscheduled, t.ID())
	}
	return ScheduleGenerated{
		BaseEvent:   sharedDomain.NewBaseEvent(result.UserID, AggregateType, RoutingKeyScheduleGenerated, at),
		Day:         result.Day.Format(time.DateOnly),
		Slots:       slots,
		Unscheduled: unscheduled,
		Note:        result.Note,
		Degraded:    result.Degraded,
	}
}
