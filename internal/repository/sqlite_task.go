package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(q db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: q}
}

const taskColumns = `id, title, type, deadline, status, last_reset_date, version, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	t.Version = 1
	_, err := r.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Title,
		string(t.Type),
		nullableTimeToString(t.Deadline, time.RFC3339),
		string(t.Status),
		nullableDayKey(t.LastResetDate),
		t.Version,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return r.writeTracking(ctx, t)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTracking(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	var where []string
	var args []any
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	rows.Close()

	// Tracking is loaded after the cursor closes: in-memory databases have a
	// single connection.
	for _, t := range tasks {
		if err := r.loadTracking(ctx, t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks
		SET title = ?, type = ?, deadline = ?, status = ?, last_reset_date = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		t.Title,
		string(t.Type),
		nullableTimeToString(t.Deadline, time.RFC3339),
		string(t.Status),
		nullableDayKey(t.LastResetDate),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
		t.Version,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if err := checkVersioned(ctx, r.db, res, "tasks", t.ID); err != nil {
		return err
	}
	t.Version++

	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_daily_tracking WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing daily tracking: %w", err)
	}
	return r.writeTracking(ctx, t)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return checkDeleted(res, "tasks", id)
}

func (r *SQLiteTaskRepo) writeTracking(ctx context.Context, t *domain.Task) error {
	for _, e := range t.DailyTracking {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO task_daily_tracking (task_id, day, completed) VALUES (?, ?, ?)`,
			t.ID, domain.DayKey(e.Date), boolToInt(e.Completed))
		if err != nil {
			return fmt.Errorf("inserting daily tracking for %s: %w", domain.DayKey(e.Date), err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) loadTracking(ctx context.Context, t *domain.Task) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, completed FROM task_daily_tracking WHERE task_id = ? ORDER BY day`, t.ID)
	if err != nil {
		return fmt.Errorf("loading daily tracking: %w", err)
	}
	defer rows.Close()

	t.DailyTracking = nil
	for rows.Next() {
		var day string
		var completed int
		if err := rows.Scan(&day, &completed); err != nil {
			return fmt.Errorf("scanning daily tracking: %w", err)
		}
		d, err := domain.ParseDay(day)
		if err != nil {
			return fmt.Errorf("parsing tracking day: %w", err)
		}
		t.DailyTracking = append(t.DailyTracking, domain.DailyTrackingEntry{Date: d, Completed: intToBool(completed)})
	}
	return rows.Err()
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var typ, status, createdAt, updatedAt string
	var deadline, lastReset sql.NullString

	err := s.Scan(&t.ID, &t.Title, &typ, &deadline, &status, &lastReset, &t.Version, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Type = domain.TaskType(typ)
	t.Status = domain.TaskStatus(status)
	t.Deadline = parseNullableTime(deadline, time.RFC3339)
	t.LastResetDate = parseNullableTime(lastReset, domain.DayLayout)
	if t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
