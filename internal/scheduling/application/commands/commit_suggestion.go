package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/services"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CommitSuggestionCommand promotes a task's stored advisory priority.
type CommitSuggestionCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CommitSuggestionHandler handles the CommitSuggestionCommand.
type CommitSuggestionHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	merger     *services.SuggestionMerger
}

// NewCommitSuggestionHandler creates a new CommitSuggestionHandler.
func NewCommitSuggestionHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CommitSuggestionHandler {
	return &CommitSuggestionHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		merger:     services.NewSuggestionMerger(),
	}
}

// Handle executes the CommitSuggestionCommand. A task without an advisory
// returns task.ErrNoAdvisory.
func (h *CommitSuggestionHandler) Handle(ctx context.Context, cmd CommitSuggestionCommand) (*task.Task, error) {
	return sharedApplication.Transact(ctx, h.uow, func(txCtx context.Context) (*task.Task, error) {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		if t.UserID() != cmd.UserID {
			return nil, task.ErrNotOwner
		}
		if err := h.merger.Commit(t); err != nil {
			return nil, err
		}
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return nil, err
		}
		meta := sharedApplication.NewEventMetadata(txCtx, cmd.UserID)
		if err := outbox.Append(txCtx, h.outboxRepo, meta, t.PullEvents()...); err != nil {
			return nil, err
		}
		return t, nil
	})
}
