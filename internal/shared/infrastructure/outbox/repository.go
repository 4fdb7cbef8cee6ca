package outbox

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
)

// Repository persists outbox messages.
type Repository interface {
	// Save stores msgs and fills in their IDs. It joins the unit of work in ctx.
	Save(ctx context.Context, msgs ...*Message) error
	// Pending returns undelivered, live messages whose retry time has come.
	Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string, at time.Time) error
	// Purge deletes published messages older than before.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Append wraps events with meta and saves them. Nothing is written when
// events is empty.
func Append(ctx context.Context, repo Repository, meta domain.EventMetadata, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := NewMessages(events, meta)
	if err != nil {
		return err
	}
	return repo.Save(ctx, msgs...)
}
