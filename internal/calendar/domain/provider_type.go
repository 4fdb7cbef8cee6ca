package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProvider is returned for provider names that are not supported.
var ErrUnknownProvider = errors.New("unknown calendar provider")

// ProviderType identifies where busy time is read from.
type ProviderType string

const (
	// ProviderNone disables the calendar; every day is fully free.
	ProviderNone ProviderType = "none"
	// ProviderGoogle is Google Calendar (OAuth2 refresh token + FreeBusy API).
	ProviderGoogle ProviderType = "google"
	// ProviderApple is iCloud Calendar (CalDAV with an app-specific password).
	ProviderApple ProviderType = "apple"
	// ProviderCalDAV is generic CalDAV (Fastmail, Nextcloud, self-hosted).
	ProviderCalDAV ProviderType = "caldav"
)

// ParseProviderType parses a provider name. The empty string means none.
func ParseProviderType(s string) (ProviderType, error) {
	p := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProviderNone, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return p, nil
}

func (p ProviderType) String() string {
	return string(p)
}

// IsValid returns true if the provider type is recognized.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderNone, ProviderGoogle, ProviderApple, ProviderCalDAV:
		return true
	default:
		return false
	}
}

// RequiresCalDAV returns true if the provider speaks CalDAV.
func (p ProviderType) RequiresCalDAV() bool {
	return p == ProviderApple || p == ProviderCalDAV
}

// DisplayName returns a human-readable name for the provider.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderNone:
		return "No calendar"
	case ProviderGoogle:
		return "Google Calendar"
	case ProviderApple:
		return "Apple Calendar"
	case ProviderCalDAV:
		return "CalDAV"
	default:
		return string(p)
	}
}
