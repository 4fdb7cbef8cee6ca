package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
)

// DateLayout is the format accepted for date flags.
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD, "today" or "tomorrow". Dates are midnight
// in loc.
func ParseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, today or tomorrow): %w", s, err)
	}
	return t, nil
}

// StatusIcon renders a task status as a checkbox.
func StatusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "in_progress":
		return "[>]"
	case "postponed":
		return "[~]"
	default:
		return "[ ]"
	}
}

// PriorityBadge renders a priority level compactly.
func PriorityBadge(priority string) string {
	switch priority {
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

// ShortID is the prefix of an ID shown in listings.
func ShortID(id fmt.Stringer) string {
	return id.String()[:8]
}

// PrintTaskLine writes the one-entry listing form of a task.
func PrintTaskLine(w io.Writer, t queries.TaskDTO, now time.Time) {
	marker := ""
	if t.DueDate != nil && t.Status != "completed" && t.DueDate.Before(now) {
		marker = " [OVERDUE]"
	}
	fmt.Fprintf(w, "%s %s %s%s\n", StatusIcon(t.Status), t.Title, PriorityBadge(t.Priority), marker)
	fmt.Fprintf(w, "   ID: %s  Estimate: %d min\n", t.ID, t.EstimateMinutes)
	if t.DueDate != nil {
		fmt.Fprintf(w, "   Due: %s\n", t.DueDate.Format("2006-01-02 15:04"))
	}
	if t.Advisory != nil {
		fmt.Fprintf(w, "   Suggested: %s at %s\n", t.Advisory.Priority, t.Advisory.ScheduledTime.Format("15:04"))
	}
}
