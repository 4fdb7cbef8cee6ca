package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
)

// newLocalBus is the publisher used without a broker. Every delivered event
// is written to the debug log so local runs keep an activity trail.
func newLocalBus(logger *slog.Logger) *eventbus.MemoryBus {
	bus := eventbus.NewMemoryBus(logger)
	bus.Subscribe("#", logActivity(logger))
	return bus
}

func logActivity(logger *slog.Logger) eventbus.Handler {
	return func(ctx context.Context, routingKey string, payload []byte) error {
		var env outbox.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}
		logger.DebugContext(ctx, "domain event",
			"routing_key", routingKey,
			"aggregate_type", env.AggregateType,
			"aggregate_id", env.AggregateID,
			"user_id", env.Metadata.UserID,
			"occurred_at", env.OccurredAt,
		)
		return nil
	}
}
