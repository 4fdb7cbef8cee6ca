package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// taskWriter loads, saves and publishes tasks inside a unit of work. Every
// handler in this package embeds it.
type taskWriter struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func (w taskWriter) loadOwned(ctx context.Context, taskID, userID uuid.UUID) (*task.Task, error) {
	t, err := w.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID() != userID {
		return nil, task.ErrNotOwner
	}
	return t, nil
}

// save stores t and moves its pending events into the outbox.
func (w taskWriter) save(ctx context.Context, t *task.Task) error {
	if err := w.taskRepo.Save(ctx, t); err != nil {
		return err
	}
	meta := sharedApplication.NewEventMetadata(ctx, t.UserID())
	return outbox.Append(ctx, w.outboxRepo, meta, t.PullEvents()...)
}

// mutate applies fn to an owned task and saves it in one transaction.
func (w taskWriter) mutate(ctx context.Context, taskID, userID uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	return sharedApplication.Transact(ctx, w.uow, func(txCtx context.Context) (*task.Task, error) {
		t, err := w.loadOwned(txCtx, taskID, userID)
		if err != nil {
			return nil, err
		}
		if err := fn(t); err != nil {
			return nil, err
		}
		if err := w.save(txCtx, t); err != nil {
			return nil, err
		}
		return t, nil
	})
}
