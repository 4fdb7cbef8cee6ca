package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// TaskRepository implements task.Repository on either SQL backend.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a repository on conn.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

var _ task.Repository = (*TaskRepository)(nil)

func (r *TaskRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save updates the task when its stored version matches and inserts it
// when it does not exist yet.
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) error {
	s := t.Snapshot()
	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return err
	}
	var advisory any
	if s.Advisory != nil {
		b, err := json.Marshal(s.Advisory)
		if err != nil {
			return err
		}
		advisory = string(b)
	}

	ex := r.exec(ctx)
	res, err := ex.Exec(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?, estimate_minutes = ?,
			start_date = ?, due_date = ?, completed_at = ?, tags = ?, category = ?,
			calendar_event_id = ?, advisory = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		s.Title, s.Description, s.Status.String(), s.Priority.String(), s.EstimateMinutes,
		database.NullTime(s.StartDate), database.NullTime(s.DueDate), database.NullTime(s.CompletedAt),
		string(tags), s.Category, s.CalendarEventID, advisory, database.FormatTime(s.UpdatedAt),
		s.ID.String(), s.Version,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		t.BumpVersion()
		return nil
	}

	var exists int
	err = ex.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, s.ID.String()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check task: %w", err)
	}
	if exists > 0 {
		return task.ErrVersionConflict
	}

	_, err = ex.Exec(ctx, `
		INSERT INTO tasks (
			id, user_id, title, description, status, priority, estimate_minutes,
			start_date, due_date, completed_at, tags, category, calendar_event_id,
			advisory, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), s.UserID.String(), s.Title, s.Description, s.Status.String(), s.Priority.String(),
		s.EstimateMinutes, database.NullTime(s.StartDate), database.NullTime(s.DueDate),
		database.NullTime(s.CompletedAt), string(tags), s.Category, s.CalendarEventID, advisory,
		s.Version+1, database.FormatTime(s.CreatedAt), database.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.BumpVersion()
	return nil
}

const selectTask = `
	SELECT id, user_id, title, description, status, priority, estimate_minutes,
	       start_date, due_date, completed_at, tags, category, calendar_event_id,
	       advisory, version, created_at, updated_at
	FROM tasks`

func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := scanTask(r.exec(ctx).QueryRow(ctx, selectTask+` WHERE id = ?`, id.String()))
	if database.IsNoRows(err) {
		return nil, task.ErrTaskNotFound
	}
	return t, err
}

func (r *TaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.list(ctx, selectTask+` WHERE user_id = ? ORDER BY created_at, id`, userID.String())
}

func (r *TaskRepository) FindActive(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.list(ctx, selectTask+` WHERE user_id = ? AND status <> ? ORDER BY created_at, id`,
		userID.String(), task.StatusCompleted.String())
}

func (r *TaskRepository) FindDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*task.Task, error) {
	return r.list(ctx, selectTask+`
		WHERE user_id = ? AND status <> ? AND due_date IS NOT NULL AND due_date >= ? AND due_date < ?
		ORDER BY due_date, id`,
		userID.String(), task.StatusCompleted.String(), database.FormatTime(from), database.FormatTime(to))
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.exec(ctx).Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := r.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return database.ScanAll(rows, scanTask)
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		s                            task.Snapshot
		id, userID, status, priority string
		start, due, completed        sql.NullString
		tags, created, updated       string
		advisory                     sql.NullString
	)
	err := row.Scan(&id, &userID, &s.Title, &s.Description, &status, &priority, &s.EstimateMinutes,
		&start, &due, &completed, &tags, &s.Category, &s.CalendarEventID,
		&advisory, &s.Version, &created, &updated)
	if err != nil {
		return nil, err
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	if s.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("task user id: %w", err)
	}
	if s.Status, err = task.ParseStatus(status); err != nil {
		return nil, err
	}
	if s.Priority, err = value_objects.ParsePriority(priority); err != nil {
		return nil, err
	}
	if s.StartDate, err = database.ParseNullTime(start); err != nil {
		return nil, err
	}
	if s.DueDate, err = database.ParseNullTime(due); err != nil {
		return nil, err
	}
	if s.CompletedAt, err = database.ParseNullTime(completed); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = database.ParseTime(updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return nil, fmt.Errorf("task tags: %w", err)
	}
	if advisory.Valid {
		s.Advisory = new(task.Advisory)
		if err := json.Unmarshal([]byte(advisory.String), s.Advisory); err != nil {
			return nil, fmt.Errorf("task advisory: %w", err)
		}
	}
	return task.Restore(s), nil
}
