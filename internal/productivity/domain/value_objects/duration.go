package value_objects

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrDurationTooLong = errors.New("duration exceeds maximum allowed")
)

const (
	// DefaultEstimate is used when a task is created without an estimate.
	DefaultEstimate = time.Hour
	// MaxDuration caps a single task at one working day.
	MaxDuration = 12 * time.Hour
)

// Duration is a strictly positive task estimate.
type Duration struct {
	value time.Duration
}

// NewDuration validates d and wraps it.
func NewDuration(d time.Duration) (Duration, error) {
	if d <= 0 {
		return Duration{}, ErrInvalidDuration
	}
	if d > MaxDuration {
		return Duration{}, ErrDurationTooLong
	}
	return Duration{value: d}, nil
}

// MustNewDuration is NewDuration for constants; it panics on invalid input.
func MustNewDuration(d time.Duration) Duration {
	dur, err := NewDuration(d)
	if err != nil {
		panic(err)
	}
	return dur
}

// DurationFromMinutes builds a Duration from a whole number of minutes.
func DurationFromMinutes(minutes int) (Duration, error) {
	return NewDuration(time.Duration(minutes) * time.Minute)
}

func (d Duration) Value() time.Duration { return d.value }
func (d Duration) Minutes() int         { return int(d.value / time.Minute) }

// IsZero reports an unset estimate.
func (d Duration) IsZero() bool { return d.value == 0 }

// Or returns d, or fallback when d is unset.
func (d Duration) Or(fallback time.Duration) time.Duration {
	if d.IsZero() {
		return fallback
	}
	return d.value
}

func (d Duration) String() string {
	if d.value == 0 {
		return "0m"
	}
	hours := int(d.value.Hours())
	minutes := int(d.value.Minutes()) % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
