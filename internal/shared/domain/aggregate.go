package domain

import "time"

// AggregateRoot is an entity that records domain events and carries a
// version for optimistic concurrency.
type AggregateRoot struct {
	Entity
	pending []Event
	version int
}

// NewAggregateRoot creates an aggregate root stamped at now.
func NewAggregateRoot(now time.Time) AggregateRoot {
	return AggregateRoot{Entity: NewEntity(now)}
}

// RestoreAggregateRoot recreates an aggregate root from persisted state.
func RestoreAggregateRoot(entity Entity, version int) AggregateRoot {
	return AggregateRoot{Entity: entity, version: version}
}

// Record appends an event to the uncommitted list.
func (a *AggregateRoot) Record(event Event) {
	a.pending = append(a.pending, event)
}

// Events returns the uncommitted events without clearing them.
func (a *AggregateRoot) Events() []Event {
	return a.pending
}

// PullEvents returns the uncommitted events and clears the list.
func (a *AggregateRoot) PullEvents() []Event {
	events := a.pending
	a.pending = nil
	return events
}

// Version returns the persisted version.
func (a *AggregateRoot) Version() int {
	return a.version
}

// BumpVersion increments the version after a successful save.
func (a *AggregateRoot) BumpVersion() {
	a.version++
}
