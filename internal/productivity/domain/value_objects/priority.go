package value_objects

import (
	"errors"
	"strings"
)

// Priority is the user-declared importance of a task.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var ErrInvalidPriority = errors.New("invalid priority value")

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

// ParsePriority creates a Priority from its name. Matching is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == needle {
			return p, nil
		}
	}
	return PriorityLow, ErrInvalidPriority
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether p is one of the declared levels.
func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Level maps the priority onto [0,1]: low 0, medium 0.5, high 1.
func (p Priority) Level() float64 {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 0.5
	default:
		return 0
	}
}

// CalendarColorID returns the Google Calendar event color used for the level.
func (p Priority) CalendarColorID() string {
	switch p {
	case PriorityHigh:
		return "11"
	case PriorityMedium:
		return "5"
	case PriorityLow:
		return "2"
	default:
		return "1"
	}
}

// MarshalText encodes the level by name.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, ErrInvalidPriority
	}
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names ParsePriority accepts.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
