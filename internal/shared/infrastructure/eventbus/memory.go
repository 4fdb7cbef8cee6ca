package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives a delivered event.
type Handler func(ctx context.Context, routingKey string, payload []byte) error

// MemoryBus delivers events synchronously to in-process subscribers. It is
// the broker for local mode and for tests.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

type subscription struct {
	pattern string
	handler Handler
}

// NewMemoryBus creates an empty bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryBus{logger: logger}
}

// Subscribe registers h for routing keys matching the topic pattern.
func (b *MemoryBus) Subscribe(pattern string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{pattern: pattern, handler: h})
}

// Publish calls every matching handler in subscription order. Handler
// errors are logged and do not fail the publish.
func (b *MemoryBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if !MatchTopic(s.pattern, routingKey) {
			continue
		}
		if err := s.handler(ctx, routingKey, payload); err != nil {
			b.logger.Warn("event handler failed",
				"routing_key", routingKey,
				"pattern", s.pattern,
				"error", err,
			)
		}
	}
	return nil
}

func (b *MemoryBus) Close() error { return nil }
