package domain

import (
	"slices"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval is a convenience constructor.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Duration returns End - Start, or zero for degenerate intervals.
func (i Interval) Duration() time.Duration {
	if i.IsEmpty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// IsEmpty reports a degenerate interval (Start >= End).
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps reports whether the two intervals share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Normalize drops degenerate intervals, sorts by start and merges any that
// overlap or touch. The input is not modified.
func Normalize(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	slices.SortFunc(valid, func(a, b Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})

	merged := []Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Clip truncates each interval to rng and drops those that fall outside it.
func Clip(rng Interval, intervals []Interval) []Interval {
	if rng.IsEmpty() {
		return nil
	}
	var out []Interval
	for _, iv := range intervals {
		start, end := iv.Start, iv.End
		if start.Before(rng.Start) {
			start = rng.Start
		}
		if end.After(rng.End) {
			end = rng.End
		}
		if start.Before(end) {
			out = append(out, Interval{Start: start, End: end})
		}
	}
	return out
}

// Complement returns the gaps of rng not covered by busy. busy must already
// be normalized and clipped to rng.
func Complement(rng Interval, busy []Interval) []Interval {
	if rng.IsEmpty() {
		return nil
	}
	var free []Interval
	cursor := rng.Start
	for _, b := range busy {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(rng.End) {
		free = append(free, Interval{Start: cursor, End: rng.End})
	}
	return free
}

// FreeIntervals returns the parts of rng not covered by any busy interval,
// in chronological order. busy may be unsorted, overlapping or partly
// outside rng.
func FreeIntervals(rng Interval, busy []Interval) []Interval {
	return Complement(rng, Normalize(Clip(rng, busy)))
}

// TotalDuration sums the durations of the intervals.
func TotalDuration(intervals []Interval) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
