// Package lock serializes work per key, either inside one process or across
// processes through Redis.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken before the
// context ended.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive locks by key.
type Locker interface {
	// Acquire blocks until key is held or ctx is done. The returned release
	// function is safe to call more than once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
