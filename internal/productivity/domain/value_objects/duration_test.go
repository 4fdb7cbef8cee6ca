package value_objects_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   time.Duration
		wantErr error
	}{
		{"thirty minutes", 30 * time.Minute, nil},
		{"max", value_objects.MaxDuration, nil},
		{"zero", 0, value_objects.ErrInvalidDuration},
		{"negative", -time.Minute, value_objects.ErrInvalidDuration},
		{"too long", value_objects.MaxDuration + time.Minute, value_objects.ErrDurationTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := value_objects.NewDuration(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, d.Value())
		})
	}
}

func TestDuration_Or(t *testing.T) {
	var unset value_objects.Duration
	assert.True(t, unset.IsZero())
	assert.Equal(t, time.Hour, unset.Or(time.Hour))

	set := value_objects.MustNewDuration(20 * time.Minute)
	assert.Equal(t, 20*time.Minute, set.Or(time.Hour))
}

func TestDuration_String(t *testing.T) {
	assert.Equal(t, "1h30m", value_objects.MustNewDuration(90*time.Minute).String())
	assert.Equal(t, "2h", value_objects.MustNewDuration(2*time.Hour).String())
	assert.Equal(t, "45m", value_objects.MustNewDuration(45*time.Minute).String())
	assert.Equal(t, "0m", value_objects.Duration{}.String())
}

func TestDurationFromMinutes(t *testing.T) {
	d, err := value_objects.DurationFromMinutes(15)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Minutes())

	_, err = value_objects.DurationFromMinutes(0)
	assert.ErrorIs(t, err, value_objects.ErrInvalidDuration)
}
