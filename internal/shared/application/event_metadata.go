package application

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

type correlationKey struct{}

// WithCorrelationID stores the request correlation ID in ctx.
func WithCorrelationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the ID stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(correlationKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// NewEventMetadata builds metadata for events raised while serving ctx.
// A fresh correlation ID is generated when the caller did not set one.
func NewEventMetadata(ctx context.Context, userID uuid.UUID) domain.EventMetadata {
	id, ok := CorrelationID(ctx)
	if !ok {
		id = uuid.New()
	}
	return domain.EventMetadata{CorrelationID: id, UserID: userID}
}
