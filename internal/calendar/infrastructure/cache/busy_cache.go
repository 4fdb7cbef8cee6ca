package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "cadence:busy:"

// BusyCache decorates a BusyTimeProvider with a Redis read-through cache.
// Cache failures are logged and fall through to the wrapped provider.
type BusyCache struct {
	next   schedulingDomain.BusyTimeProvider
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewBusyCache wraps next. A non-positive ttl disables caching.
func NewBusyCache(next schedulingDomain.BusyTimeProvider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *BusyCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusyCache{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: defaultPrefix,
		logger: logger,
	}
}

// WithPrefix sets the key prefix.
func (c *BusyCache) WithPrefix(prefix string) *BusyCache {
	c.prefix = prefix
	return c
}

var _ schedulingDomain.BusyTimeProvider = (*BusyCache)(nil)

// BusyIntervals implements schedulingDomain.BusyTimeProvider.
func (c *BusyCache) BusyIntervals(ctx context.Context, userID uuid.UUID, rng schedulingDomain.Interval) ([]schedulingDomain.Interval, error) {
	if c.client == nil || c.ttl <= 0 {
		return c.next.BusyIntervals(ctx, userID, rng)
	}

	key := c.key(userID, rng)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var busy []schedulingDomain.Interval
		if err := json.Unmarshal(raw, &busy); err == nil {
			return busy, nil
		}
		c.logger.Warn("discarding corrupt busy cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("busy cache read failed", "key", key, "error", err)
	}

	busy, err := c.next.BusyIntervals(ctx, userID, rng)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(busy)
	if err != nil {
		return busy, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("busy cache write failed", "key", key, "error", err)
	}
	return busy, nil
}

// Invalidate drops every cached range of a user.
func (c *BusyCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, c.prefix+userID.String()+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan busy cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *BusyCache) key(userID uuid.UUID, rng schedulingDomain.Interval) string {
	return fmt.Sprintf("%s%s:%d:%d", c.prefix, userID, rng.Start.Unix(), rng.End.Unix())
}
