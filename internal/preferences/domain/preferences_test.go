package domain_test

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.ClockTime
		wantErr bool
	}{
		{"09:00", 540, false},
		{"17:30", 1050, false},
		{"00:00", 0, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"9", 0, true},
		{"ab:cd", 0, true},
		{"12:60", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestClockTime_On(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	got := domain.MustParseClock("09:15").On(day, berlin)

	assert.Equal(t, time.Date(2024, 3, 4, 9, 15, 0, 0, berlin), got)
}

func TestClockTime_OnAcrossDSTChanges(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	for _, day := range []time.Time{
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC),
	} {
		t.Run(day.Format(time.DateOnly), func(t *testing.T) {
			start := domain.MustParseClock("09:00").On(day, ny)
			end := domain.MustParseClock("17:00").On(day, ny)

			assert.Equal(t, 9, start.Hour())
			assert.Equal(t, 17, end.Hour())
			assert.Equal(t, day.Day(), start.Day())
			assert.Equal(t, 8*time.Hour, end.Sub(start))
		})
	}
}

func TestClockTime_OnEndOfDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is 23 hours long in New York.
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	got := domain.MustParseClock("24:00").On(day, ny)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, ny), got)
	assert.Equal(t, 23*time.Hour, got.Sub(domain.MustParseClock("00:00").On(day, ny)))
}

func TestDefaultPreferences(t *testing.T) {
	userID := uuid.New()
	p := domain.DefaultPreferences(userID)

	require.NoError(t, p.Validate())
	assert.Len(t, p.WorkingHours, 7)
	w, ok := p.HoursFor(time.Wednesday)
	require.True(t, ok)
	assert.Equal(t, "09:00", w.Start.String())
	assert.Equal(t, "17:00", w.End.String())
	assert.Equal(t, 3, p.BreakPolicy.EveryNTasks)
	assert.Equal(t, 15*time.Minute, p.BreakPolicy.Duration)
	assert.Equal(t, time.Hour, p.DefaultEventDuration)
	assert.Equal(t, domain.DefaultPriorityWeights(), p.PriorityWeights)
}

func TestPreferences_Validate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(p *domain.Preferences)
		field string
	}{
		{"missing user", func(p *domain.Preferences) { p.UserID = uuid.Nil }, "user_id"},
		{"bad timezone", func(p *domain.Preferences) { p.Timezone = "Mars/Olympus" }, "timezone"},
		{"negative weight", func(p *domain.Preferences) { p.PriorityWeights.Effort = -0.1 }, "priority_weights.effort"},
		{"negative break cadence", func(p *domain.Preferences) { p.BreakPolicy.EveryNTasks = -1 }, "break_policy.every_n_tasks"},
		{"zero fallback duration", func(p *domain.Preferences) { p.DefaultEventDuration = 0 }, "default_event_duration"},
		{"empty peak window", func(p *domain.Preferences) {
			p.PeakHours = []domain.PeakWindow{{Day: time.Monday, Start: 600, End: 600}}
		}, "peak_hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.DefaultPreferences(uuid.New())
			tt.mut(p)

			err := p.Validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPreferences_ValidateIgnoresBrokenDay(t *testing.T) {
	p := domain.DefaultPreferences(uuid.New())
	p.WorkingHours[time.Friday] = domain.WorkingHours{Start: 1000, End: 900}

	assert.NoError(t, p.Validate())
	assert.ErrorIs(t, p.WorkingHours[time.Friday].Validate(), domain.ErrValidation)
}

func TestPreferences_SetHours(t *testing.T) {
	p := domain.DefaultPreferences(uuid.New())

	err := p.SetHours(time.Monday, domain.WorkingHours{Start: 600, End: 600})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, p.SetHours(time.Monday, domain.WorkingHours{Start: 480, End: 960}))
	w, _ := p.HoursFor(time.Monday)
	assert.Equal(t, domain.ClockTime(480), w.Start)

	p.ClearHours(time.Sunday)
	_, ok := p.HoursFor(time.Sunday)
	assert.False(t, ok)
}

func TestPreferences_IsWorkingTime(t *testing.T) {
	p := domain.DefaultPreferences(uuid.New())
	p.ClearHours(time.Sunday)

	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.True(t, p.IsWorkingTime(monday.Add(9*time.Hour)))
	assert.True(t, p.IsWorkingTime(monday.Add(16*time.Hour+59*time.Minute)))
	assert.False(t, p.IsWorkingTime(monday.Add(17*time.Hour)))
	assert.False(t, p.IsWorkingTime(monday.Add(8*time.Hour)))
	assert.False(t, p.IsWorkingTime(monday.Add(-24*time.Hour+10*time.Hour)))
}

func TestQuietHours_Wraparound(t *testing.T) {
	q := domain.QuietHours{Enabled: true, Start: domain.MustParseClock("22:00"), End: domain.MustParseClock("08:00")}

	assert.True(t, q.Contains(domain.MustParseClock("23:30")))
	assert.True(t, q.Contains(domain.MustParseClock("07:59")))
	assert.False(t, q.Contains(domain.MustParseClock("08:00")))
	assert.False(t, q.Contains(domain.MustParseClock("12:00")))

	q.Enabled = false
	assert.False(t, q.Contains(domain.MustParseClock("23:30")))
}

func TestPreferences_JSONRoundTrip(t *testing.T) {
	p := domain.DefaultPreferences(uuid.New())
	p.Timezone = "Europe/Berlin"
	p.PeakHours = []domain.PeakWindow{{Day: time.Tuesday, Start: 540, End: 660}}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start":"09:00"`)

	var decoded domain.Preferences
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, p.WorkingHours, decoded.WorkingHours)
	assert.Equal(t, p.PeakHours, decoded.PeakHours)
	assert.Equal(t, p.BreakPolicy, decoded.BreakPolicy)
}
