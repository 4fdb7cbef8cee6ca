package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseExclusion(t *testing.T, l Locker) {
	t.Helper()
	key := "user:" + uuid.NewString()
	var (
		inside   atomic.Int32
		overlaps atomic.Int32
		wg       sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			if inside.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
			release()
		}()
	}
	wg.Wait()
	assert.Zero(t, overlaps.Load())
}

func TestMemoryLocker_Exclusion(t *testing.T) {
	l := NewMemoryLocker()
	exerciseExclusion(t, l)
	assert.Zero(t, l.Held())
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	l := NewMemoryLocker()
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrNotAcquired)

	release()
	release()
	assert.Zero(t, l.Held())

	again, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_IndependentKeys(t *testing.T) {
	l := NewMemoryLocker()
	a, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer a()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := l.Acquire(ctx, "b")
	require.NoError(t, err)
	b()
}

func TestRedisLocker(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, "cadence:test:lock:", 5*time.Second, nil)
	exerciseExclusion(t, l)

	release, err := l.Acquire(context.Background(), "held")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "held")
	assert.ErrorIs(t, err, ErrNotAcquired)
	release()
}
