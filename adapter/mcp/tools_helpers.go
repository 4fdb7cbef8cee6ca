package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/google/uuid"
)

// endOfDay turns a date into the last minute of that day, which is what a
// due date means.
func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Minute)
}

func (ts *toolset) parseDate(value string) (time.Time, error) {
	return cli.ParseDate(value, ts.now(), time.Local)
}

func (ts *toolset) parseOptionalDue(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := ts.parseDate(value)
	if err != nil {
		return nil, err
	}
	due := endOfDay(day)
	return &due, nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}
