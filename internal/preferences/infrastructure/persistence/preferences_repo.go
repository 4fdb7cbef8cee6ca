package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PreferencesRepository stores each user's preferences as one JSON document.
type PreferencesRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewPreferencesRepository creates a repository on conn.
func NewPreferencesRepository(conn database.Connection) *PreferencesRepository {
	return &PreferencesRepository{conn: conn, now: time.Now}
}

var _ domain.Repository = (*PreferencesRepository)(nil)

func (r *PreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	var doc string
	err := database.ExecutorFromContext(ctx, r.conn).
		QueryRow(ctx, `SELECT document FROM preferences WHERE user_id = ?`, userID.String()).
		Scan(&doc)
	if database.IsNoRows(err) {
		return nil, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, err
	}

	var p domain.Preferences
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode preferences for %s: %w", userID, err)
	}
	return &p, nil
}

// Save upserts the document and stamps UpdatedAt.
func (r *PreferencesRepository) Save(ctx context.Context, p *domain.Preferences) error {
	p.UpdatedAt = r.now().UTC()
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO preferences (user_id, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		p.UserID.String(), string(doc), database.FormatTime(p.UpdatedAt),
	)
	return err
}
