package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type widget struct {
	domain.AggregateRoot
}

type widgetMoved struct {
	domain.BaseEvent
}

func TestAggregateRoot_PullEvents(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	w := &widget{AggregateRoot: domain.NewAggregateRoot(now)}

	w.Record(widgetMoved{BaseEvent: domain.NewBaseEvent(w.ID(), "Widget", "widget.moved", now)})
	w.Record(widgetMoved{BaseEvent: domain.NewBaseEvent(w.ID(), "Widget", "widget.moved", now)})

	assert.Len(t, w.Events(), 2)

	pulled := w.PullEvents()
	assert.Len(t, pulled, 2)
	assert.Empty(t, w.Events())
	for _, e := range pulled {
		assert.Equal(t, w.ID(), e.AggregateID())
		assert.Equal(t, "widget.moved", e.RoutingKey())
	}
}

func TestAggregateRoot_Version(t *testing.T) {
	entity := domain.RestoreEntity(uuid.New(), time.Now(), time.Now())
	root := domain.RestoreAggregateRoot(entity, 3)

	root.BumpVersion()

	assert.Equal(t, 4, root.Version())
}

func TestEntity_Touch(t *testing.T) {
	created := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	e := domain.NewEntity(created)

	t.Run("moves forward", func(t *testing.T) {
		later := created.Add(time.Hour)
		e.Touch(later)
		assert.Equal(t, later, e.UpdatedAt())
	})

	t.Run("ignores earlier timestamps", func(t *testing.T) {
		e.Touch(created.Add(-time.Hour))
		assert.Equal(t, created.Add(time.Hour), e.UpdatedAt())
		assert.Equal(t, created, e.CreatedAt())
	})

	t.Run("identity", func(t *testing.T) {
		other := domain.RestoreEntity(e.ID(), created, created)
		assert.True(t, e.SameIdentity(other))
		assert.False(t, e.SameIdentity(domain.NewEntity(created)))
	})
}
