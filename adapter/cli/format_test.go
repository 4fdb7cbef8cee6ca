package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	// 23:30 UTC is already the next day in Berlin.
	now := time.Date(2030, time.January, 9, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", time.Date(2030, 1, 10, 0, 0, 0, 0, berlin)},
		{"today", time.Date(2030, 1, 10, 0, 0, 0, 0, berlin)},
		{"Tomorrow", time.Date(2030, 1, 11, 0, 0, 0, 0, berlin)},
		{"2030-03-01", time.Date(2030, 3, 1, 0, 0, 0, 0, berlin)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now, berlin)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err = ParseDate("next tuesday", now, berlin)
	assert.ErrorContains(t, err, "invalid date")
}

func TestStatusIconAndBadge(t *testing.T) {
	assert.Equal(t, "[x]", StatusIcon("completed"))
	assert.Equal(t, "[>]", StatusIcon("in_progress"))
	assert.Equal(t, "[~]", StatusIcon("postponed"))
	assert.Equal(t, "[ ]", StatusIcon("pending"))

	assert.Equal(t, "(!)", PriorityBadge("high"))
	assert.Equal(t, "(.)", PriorityBadge("low"))
	assert.Empty(t, PriorityBadge("none"))
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	assert.Equal(t, "a1b2c3d4", ShortID(id))
}

func TestPrintTaskLine(t *testing.T) {
	now := time.Date(2030, time.January, 9, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)
	dto := queries.TaskDTO{
		ID:              uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000"),
		Title:           "Ship release",
		Status:          "pending",
		Priority:        "high",
		EstimateMinutes: 45,
		DueDate:         &due,
		Advisory: &queries.Advisory{
			Priority:      "high",
			ScheduledTime: time.Date(2030, 1, 9, 14, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	PrintTaskLine(&buf, dto, now)

	out := buf.String()
	assert.Contains(t, out, "[ ] Ship release (!) [OVERDUE]")
	assert.Contains(t, out, "Estimate: 45 min")
	assert.Contains(t, out, "Due: 2030-01-09 11:00")
	assert.Contains(t, out, "Suggested: high at 14:00")

	buf.Reset()
	dto.Status = "completed"
	dto.Advisory = nil
	PrintTaskLine(&buf, dto, now)
	assert.NotContains(t, buf.String(), "OVERDUE")
	assert.NotContains(t, buf.String(), "Suggested")
}
