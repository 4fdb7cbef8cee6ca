package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/cadence/internal/calendar/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		in       string
		expected domain.ProviderType
	}{
		{"", domain.ProviderNone},
		{"none", domain.ProviderNone},
		{"google", domain.ProviderGoogle},
		{" Google ", domain.ProviderGoogle},
		{"apple", domain.ProviderApple},
		{"CALDAV", domain.ProviderCalDAV},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseProviderType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseProviderType_Unknown(t *testing.T) {
	_, err := domain.ParseProviderType("outlook")

	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
	assert.Contains(t, err.Error(), "outlook")
}

func TestProviderType_RequiresCalDAV(t *testing.T) {
	assert.True(t, domain.ProviderApple.RequiresCalDAV())
	assert.True(t, domain.ProviderCalDAV.RequiresCalDAV())
	assert.False(t, domain.ProviderGoogle.RequiresCalDAV())
	assert.False(t, domain.ProviderNone.RequiresCalDAV())
}

func TestProviderType_DisplayName(t *testing.T) {
	assert.Equal(t, "Google Calendar", domain.ProviderGoogle.DisplayName())
	assert.Equal(t, "Apple Calendar", domain.ProviderApple.DisplayName())
	assert.Equal(t, "custom", domain.ProviderType("custom").DisplayName())
}
