package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern, key string
		want         bool
	}{
		{"task.created", "task.created", true},
		{"task.*", "task.completed", true},
		{"task.*", "task.completed.late", false},
		{"*.day.generated", "scheduling.day.generated", true},
		{"#", "scheduling.day.generated", true},
		{"task.#", "task", true},
		{"task.#", "task.a.b", true},
		{"#.generated", "scheduling.day.generated", true},
		{"scheduling.#.generated", "scheduling.generated", true},
		{"task.created", "task.completed", false},
		{"task.*", "task", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchTopic(tt.pattern, tt.key))
		})
	}
}

func TestMemoryBus(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus(nil)

	var tasks, all []string
	bus.Subscribe("task.*", func(_ context.Context, key string, _ []byte) error {
		tasks = append(tasks, key)
		return errors.New("handler failure is only logged")
	})
	bus.Subscribe("#", func(_ context.Context, key string, _ []byte) error {
		all = append(all, key)
		return nil
	})

	require.NoError(t, bus.Publish(ctx, "task.created", []byte(`{}`)))
	require.NoError(t, bus.Publish(ctx, "scheduling.day.generated", []byte(`{}`)))

	assert.Equal(t, []string{"task.created"}, tasks)
	assert.Equal(t, []string{"task.created", "scheduling.day.generated"}, all)
	assert.NoError(t, bus.Close())
}
