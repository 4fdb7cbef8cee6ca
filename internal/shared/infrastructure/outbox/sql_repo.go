package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLRepository stores messages in the outbox table of either backend.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a repository on conn.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

func (r *SQLRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *SQLRepository) Save(ctx context.Context, msgs ...*Message) error {
	ex := r.exec(ctx)
	for _, m := range msgs {
		meta, err := json.Marshal(m.Metadata)
		if err != nil {
			return err
		}
		err = ex.QueryRow(ctx, `
			INSERT INTO outbox (event_id, aggregate_type, aggregate_id, routing_key, payload, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			m.EventID.String(), m.AggregateType, m.AggregateID.String(), m.RoutingKey,
			string(m.Payload), string(meta), database.FormatTime(m.CreatedAt),
		).Scan(&m.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

const selectMessage = `
	SELECT id, event_id, aggregate_type, aggregate_id, routing_key, payload, metadata,
	       created_at, published_at, next_retry_at, retry_count, last_error, dead_lettered_at
	FROM outbox`

func (r *SQLRepository) Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	rows, err := r.exec(ctx).Query(ctx, selectMessage+`
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY id
		LIMIT ?`, database.FormatTime(now), limit)
	if err != nil {
		return nil, err
	}
	return database.ScanAll(rows, scanMessage)
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	_, err := r.exec(ctx).Exec(ctx,
		`UPDATE outbox SET published_at = ?, last_error = NULL WHERE id = ?`, database.FormatTime(at), id)
	return err
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error {
	_, err := r.exec(ctx).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`,
		reason, database.FormatTime(retryAt), id)
	return err
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	_, err := r.exec(ctx).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ? WHERE id = ?`,
		reason, database.FormatTime(at), id)
	return err
}

func (r *SQLRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.exec(ctx).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, database.FormatTime(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		m                              Message
		eventID, aggregateID           string
		payload, meta, created         string
		published, retryAt, dead, last sql.NullString
	)
	err := row.Scan(&m.ID, &eventID, &m.AggregateType, &aggregateID, &m.RoutingKey, &payload, &meta,
		&created, &published, &retryAt, &m.RetryCount, &last, &dead)
	if err != nil {
		return nil, err
	}

	if m.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, err
	}
	if m.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(meta), &m.Metadata); err != nil {
		return nil, err
	}
	m.Payload = json.RawMessage(payload)
	m.LastError = last.String
	if m.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	if m.PublishedAt, err = database.ParseNullTime(published); err != nil {
		return nil, err
	}
	if m.NextRetryAt, err = database.ParseNullTime(retryAt); err != nil {
		return nil, err
	}
	if m.DeadAt, err = database.ParseNullTime(dead); err != nil {
		return nil, err
	}
	return &m, nil
}
