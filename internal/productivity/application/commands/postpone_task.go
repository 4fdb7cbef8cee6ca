package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// PostponeTaskCommand pushes a task's due date out. When NewStart is set the
// task is rescheduled instead and returns to pending.
type PostponeTaskCommand struct {
	TaskID   uuid.UUID
	UserID   uuid.UUID
	NewDue   time.Time
	NewStart *time.Time
}

// PostponeTaskHandler handles the PostponeTaskCommand.
type PostponeTaskHandler struct {
	taskWriter
}

// NewPostponeTaskHandler creates a new PostponeTaskHandler.
func NewPostponeTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *PostponeTaskHandler {
	return &PostponeTaskHandler{taskWriter{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the PostponeTaskCommand.
func (h *PostponeTaskHandler) Handle(ctx context.Context, cmd PostponeTaskCommand) (*task.Task, error) {
	return h.mutate(ctx, cmd.TaskID, cmd.UserID, func(t *task.Task) error {
		if cmd.NewStart != nil {
			return t.Reschedule(*cmd.NewStart, cmd.NewDue)
		}
		return t.Postpone(cmd.NewDue)
	})
}
