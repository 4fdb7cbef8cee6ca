// Package outbox stores domain events in the same transaction as the state
// change that raised them and relays them to the broker afterwards.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// Envelope is the JSON body published for every event.
type Envelope struct {
	EventID       uuid.UUID            `json:"event_id"`
	RoutingKey    string               `json:"routing_key"`
	AggregateType string               `json:"aggregate_type"`
	AggregateID   uuid.UUID            `json:"aggregate_id"`
	OccurredAt    time.Time            `json:"occurred_at"`
	Metadata      domain.EventMetadata `json:"metadata"`
	Data          json.RawMessage      `json:"data"`
}

// Message is one stored event awaiting delivery.
type Message struct {
	ID            int64
	EventID       uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	RoutingKey    string
	Payload       json.RawMessage
	Metadata      domain.EventMetadata
	CreatedAt     time.Time
	PublishedAt   *time.Time
	NextRetryAt   *time.Time
	RetryCount    int
	LastError     string
	DeadAt        *time.Time
}

// NewMessage wraps event and its metadata into an envelope.
func NewMessage(event domain.Event, meta domain.EventMetadata) (*Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(Envelope{
		EventID:       event.EventID(),
		RoutingKey:    event.RoutingKey(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
		Metadata:      meta,
		Data:          data,
	})
	if err != nil {
		return nil, err
	}
	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      meta,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages converts a batch of events sharing the same metadata.
func NewMessages(events []domain.Event, meta domain.EventMetadata) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, e := range events {
		m, err := NewMessage(e, meta)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (m *Message) IsPublished() bool { return m.PublishedAt != nil }
func (m *Message) IsDead() bool      { return m.DeadAt != nil }
