package domain

import (
	"math"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
)

// WorkingHours is the working window for one weekday.
type WorkingHours struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// Validate checks that the window is inside the day and not empty.
func (w WorkingHours) Validate() error {
	if !w.Start.Valid() || !w.End.Valid() {
		return invalid("working_hours", "%s-%s outside of the day", w.Start, w.End)
	}
	if w.Start >= w.End {
		return invalid("working_hours", "start %s must be before end %s", w.Start, w.End)
	}
	return nil
}

// PeakWindow marks a stretch of a weekday where the user focuses best.
type PeakWindow struct {
	Day   time.Weekday `json:"day"`
	Start ClockTime    `json:"start"`
	End   ClockTime    `json:"end"`
}

// PriorityWeights scale the ranking terms. Each weight must be non-negative.
type PriorityWeights struct {
	Deadline     float64 `json:"deadline"`
	Importance   float64 `json:"importance"`
	Effort       float64 `json:"effort"`
	Dependencies float64 `json:"dependencies"`
}

// DefaultPriorityWeights favours deadlines, then declared importance.
func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{Deadline: 0.4, Importance: 0.3, Effort: 0.2, Dependencies: 0.1}
}

// Validate rejects negative or non-finite weights.
func (w PriorityWeights) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"deadline", w.Deadline},
		{"importance", w.Importance},
		{"effort", w.Effort},
		{"dependencies", w.Dependencies},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid("priority_weights."+f.name, "must be a non-negative number, got %v", f.value)
		}
	}
	return nil
}

// BreakPolicy inserts a break after every EveryNTasks placements.
// EveryNTasks <= 0 disables breaks.
type BreakPolicy struct {
	EveryNTasks int           `json:"every_n_tasks"`
	Duration    time.Duration `json:"duration"`
}

// Enabled reports whether breaks will be inserted.
func (b BreakPolicy) Enabled() bool {
	return b.EveryNTasks > 0 && b.Duration > 0
}

// QuietHours is a notification-free window which may wrap midnight.
type QuietHours struct {
	Enabled bool      `json:"enabled"`
	Start   ClockTime `json:"start"`
	End     ClockTime `json:"end"`
}

// Contains reports whether c falls inside the window.
func (q QuietHours) Contains(c ClockTime) bool {
	if !q.Enabled || q.Start == q.End {
		return false
	}
	if q.Start > q.End {
		return c >= q.Start || c < q.End
	}
	return c >= q.Start && c < q.End
}

// Preferences is the flat, validated scheduling profile of one user.
// A weekday missing from WorkingHours is a non-working day.
type Preferences struct {
	UserID               uuid.UUID                     `json:"user_id"`
	Timezone             string                        `json:"timezone"`
	WorkingHours         map[time.Weekday]WorkingHours `json:"working_hours"`
	PeakHours            []PeakWindow                  `json:"peak_hours"`
	PriorityWeights      PriorityWeights               `json:"priority_weights"`
	BreakPolicy          BreakPolicy                   `json:"break_policy"`
	DefaultEventDuration time.Duration                 `json:"default_event_duration"`
	DefaultPriority      value_objects.Priority        `json:"default_priority"`
	QuietHours           QuietHours                    `json:"quiet_hours"`
	CalendarSyncEnabled  bool                          `json:"calendar_sync_enabled"`
	AIEnabled            bool                          `json:"ai_enabled"`
	UpdatedAt            time.Time                     `json:"updated_at"`
}

// DefaultPreferences returns the profile a new user starts with: every
// weekday 09:00-17:00 UTC, a 15 minute break after every third task and
// one hour as the fallback task length.
func DefaultPreferences(userID uuid.UUID) *Preferences {
	hours := make(map[time.Weekday]WorkingHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = WorkingHours{Start: MustParseClock("09:00"), End: MustParseClock("17:00")}
	}
	return &Preferences{
		UserID:               userID,
		Timezone:             "UTC",
		WorkingHours:         hours,
		PriorityWeights:      DefaultPriorityWeights(),
		BreakPolicy:          BreakPolicy{EveryNTasks: 3, Duration: 15 * time.Minute},
		DefaultEventDuration: time.Hour,
		DefaultPriority:      value_objects.PriorityMedium,
		QuietHours:           QuietHours{Start: MustParseClock("22:00"), End: MustParseClock("08:00")},
		AIEnabled:            true,
	}
}

// Validate checks the fields every schedule build depends on. Individual
// working-hour windows are checked per day by the caller so one bad day does
// not invalidate the whole profile.
func (p *Preferences) Validate() error {
	if p.UserID == uuid.Nil {
		return invalid("user_id", "must be set")
	}
	if _, err := p.Location(); err != nil {
		return invalid("timezone", "%v", err)
	}
	if err := p.PriorityWeights.Validate(); err != nil {
		return err
	}
	if p.BreakPolicy.EveryNTasks < 0 {
		return invalid("break_policy.every_n_tasks", "must not be negative")
	}
	if p.BreakPolicy.Duration < 0 {
		return invalid("break_policy.duration", "must not be negative")
	}
	if p.DefaultEventDuration <= 0 {
		return invalid("default_event_duration", "must be positive")
	}
	for i, w := range p.PeakHours {
		if w.Start >= w.End || !w.Start.Valid() || !w.End.Valid() {
			return invalid("peak_hours", "window %d (%s-%s) is empty or outside the day", i, w.Start, w.End)
		}
	}
	return nil
}

// Location resolves the configured timezone. Empty means UTC.
func (p *Preferences) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(p.Timezone)
}

// HoursFor returns the working window for a weekday, if there is one.
func (p *Preferences) HoursFor(day time.Weekday) (WorkingHours, bool) {
	w, ok := p.WorkingHours[day]
	return w, ok
}

// SetHours replaces the window for one weekday after validating it.
func (p *Preferences) SetHours(day time.Weekday, w WorkingHours) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if p.WorkingHours == nil {
		p.WorkingHours = make(map[time.Weekday]WorkingHours)
	}
	p.WorkingHours[day] = w
	return nil
}

// ClearHours turns a weekday into a non-working day.
func (p *Preferences) ClearHours(day time.Weekday) {
	delete(p.WorkingHours, day)
}

// IsWorkingTime reports whether t falls inside that weekday's working window.
func (p *Preferences) IsWorkingTime(t time.Time) bool {
	loc, err := p.Location()
	if err != nil {
		return false
	}
	local := t.In(loc)
	w, ok := p.HoursFor(local.Weekday())
	if !ok {
		return false
	}
	c := ClockOf(local)
	return c >= w.Start && c < w.End
}

// IsQuietTime reports whether t falls inside the quiet window.
func (p *Preferences) IsQuietTime(t time.Time) bool {
	loc, err := p.Location()
	if err != nil {
		return false
	}
	return p.QuietHours.Contains(ClockOf(t.In(loc)))
}

// PeakWindowsFor returns the peak windows configured for a weekday.
func (p *Preferences) PeakWindowsFor(day time.Weekday) []PeakWindow {
	var out []PeakWindow
	for _, w := range p.PeakHours {
		if w.Day == day {
			out = append(out, w)
		}
	}
	return out
}
