package task

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated       = "task.created"
	RoutingKeyCompleted     = "task.completed"
	RoutingKeyPostponed     = "task.postponed"
	RoutingKeyReprioritized = "task.reprioritized"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

func NewTaskCreated(taskID uuid.UUID, title, priority string, at time.Time) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated, at),
		Title:     title,
		Priority:  priority,
	}
}

// TaskCompleted is emitted when a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
}

func NewTaskCompleted(taskID uuid.UUID, at time.Time) TaskCompleted {
	return TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted, at),
	}
}

// TaskPostponed is emitted when the due date is pushed out.
type TaskPostponed struct {
	domain.BaseEvent
	NewDueDate time.Time `json:"new_due_date"`
}

func NewTaskPostponed(taskID uuid.UUID, newDue, at time.Time) TaskPostponed {
	return TaskPostponed{
		BaseEvent:  domain.NewBaseEvent(taskID, AggregateType, RoutingKeyPostponed, at),
		NewDueDate: newDue,
	}
}

// TaskReprioritized is emitted whenever the canonical priority changes.
type TaskReprioritized struct {
	domain.BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

func NewTaskReprioritized(taskID uuid.UUID, from, to string, at time.Time) TaskReprioritized {
	return TaskReprioritized{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyReprioritized, at),
		From:      from,
		To:        to,
	}
}
