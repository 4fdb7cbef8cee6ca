package value_objects_test

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value_objects.Priority
		wantErr  bool
	}{
		{"low", "low", value_objects.PriorityLow, false},
		{"medium", "medium", value_objects.PriorityMedium, false},
		{"high", "high", value_objects.PriorityHigh, false},
		{"case insensitive", "HIGH", value_objects.PriorityHigh, false},
		{"padded", "  medium ", value_objects.PriorityMedium, false},
		{"urgent is not a level", "urgent", value_objects.PriorityLow, true},
		{"empty", "", value_objects.PriorityLow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := value_objects.ParsePriority(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPriority_Level(t *testing.T) {
	assert.Equal(t, 0.0, value_objects.PriorityLow.Level())
	assert.Equal(t, 0.5, value_objects.PriorityMedium.Level())
	assert.Equal(t, 1.0, value_objects.PriorityHigh.Level())
}

func TestPriority_StringAndValidity(t *testing.T) {
	assert.Equal(t, "high", value_objects.PriorityHigh.String())
	assert.Equal(t, "unknown", value_objects.Priority(42).String())
	assert.False(t, value_objects.Priority(-1).IsValid())
	assert.True(t, value_objects.PriorityMedium.IsValid())
}

func TestPriority_CalendarColorID(t *testing.T) {
	assert.Equal(t, "11", value_objects.PriorityHigh.CalendarColorID())
	assert.Equal(t, "5", value_objects.PriorityMedium.CalendarColorID())
	assert.Equal(t, "2", value_objects.PriorityLow.CalendarColorID())
}

func TestPriority_TextEncoding(t *testing.T) {
	type doc struct {
		Priority value_objects.Priority `json:"priority"`
	}

	out, err := json.Marshal(doc{Priority: value_objects.PriorityMedium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"priority":"medium"}`, string(out))

	var in doc
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"HIGH"}`), &in))
	assert.Equal(t, value_objects.PriorityHigh, in.Priority)

	assert.Error(t, json.Unmarshal([]byte(`{"priority":"urgent"}`), &in))
	_, err = json.Marshal(doc{Priority: value_objects.Priority(9)})
	assert.Error(t, err)
}
