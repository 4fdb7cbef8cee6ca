package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateTaskCommand changes the fields that are set; nil fields are kept.
type UpdateTaskCommand struct {
	TaskID          uuid.UUID
	UserID          uuid.UUID
	Title           *string
	Description     *string
	Priority        *string
	EstimateMinutes *int
	DueDate         *time.Time
	ClearDueDate    bool
	Tags            []string
	Category        *string
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskWriter
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskHandler {
	return &UpdateTaskHandler{taskWriter{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	return h.mutate(ctx, cmd.TaskID, cmd.UserID, func(t *task.Task) error {
		if cmd.Title != nil {
			if err := t.SetTitle(*cmd.Title); err != nil {
				return err
			}
		}
		if cmd.Description != nil {
			t.SetDescription(*cmd.Description)
		}
		if cmd.Priority != nil {
			p, err := value_objects.ParsePriority(*cmd.Priority)
			if err != nil {
				return err
			}
			if err := t.SetPriority(p); err != nil {
				return err
			}
		}
		if cmd.EstimateMinutes != nil {
			d, err := value_objects.DurationFromMinutes(*cmd.EstimateMinutes)
			if err != nil {
				return err
			}
			if err := t.SetEstimate(d); err != nil {
				return err
			}
		}
		switch {
		case cmd.ClearDueDate:
			if err := t.SetDates(t.StartDate(), nil); err != nil {
				return err
			}
		case cmd.DueDate != nil:
			if err := t.SetDates(t.StartDate(), cmd.DueDate); err != nil {
				return err
			}
		}
		if cmd.Tags != nil {
			t.SetTags(cmd.Tags)
		}
		if cmd.Category != nil {
			t.SetCategory(*cmd.Category)
		}
		return nil
	})
}

// DeleteTaskCommand removes a task.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskWriter
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskWriter{taskRepo: taskRepo, uow: uow}}
}

// Handle executes the DeleteTaskCommand.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if _, err := h.loadOwned(txCtx, cmd.TaskID, cmd.UserID); err != nil {
			return err
		}
		return h.taskRepo.Delete(txCtx, cmd.TaskID)
	})
}
