package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the identity and audit timestamps shared by all aggregates.
type Entity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewEntity creates an entity with a fresh ID stamped at now.
func NewEntity(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		id:        uuid.New(),
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreEntity recreates an entity from persisted state.
func RestoreEntity(id uuid.UUID, createdAt, updatedAt time.Time) Entity {
	return Entity{
		id:        id,
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
	}
}

func (e Entity) ID() uuid.UUID        { return e.id }
func (e Entity) CreatedAt() time.Time { return e.createdAt }
func (e Entity) UpdatedAt() time.Time { return e.updatedAt }

// Touch moves updatedAt forward. Earlier timestamps are ignored.
func (e *Entity) Touch(now time.Time) {
	now = now.UTC()
	if now.After(e.updatedAt) {
		e.updatedAt = now
	}
}

// SameIdentity reports whether both entities share an ID.
func (e Entity) SameIdentity(other Entity) bool {
	return e.id == other.id
}
