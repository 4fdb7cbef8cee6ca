package domain

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
)

// Suggestion is the raw output of an advisor for one task. Priority is kept
// as text because advisors are not trusted to produce a valid level.
type Suggestion struct {
	Priority      string    `json:"priority"`
	ScheduledTime time.Time `json:"scheduledTime"`
	Insight       string    `json:"insights"`
}

// ParsedPriority returns the suggested level, or an error when the advisor
// produced something unusable.
func (s Suggestion) ParsedPriority() (value_objects.Priority, error) {
	return value_objects.ParsePriority(s.Priority)
}

// Valid reports whether the suggestion can be attached as-is.
func (s Suggestion) Valid() bool {
	if _, err := s.ParsedPriority(); err != nil {
		return false
	}
	return !s.ScheduledTime.IsZero()
}
