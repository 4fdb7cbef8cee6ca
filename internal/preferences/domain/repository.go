package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores one Preferences document per user.
type Repository interface {
	// Get returns ErrPreferencesNotFound when the user has none.
	Get(ctx context.Context, userID uuid.UUID) (*Preferences, error)
	Save(ctx context.Context, prefs *Preferences) error
}
