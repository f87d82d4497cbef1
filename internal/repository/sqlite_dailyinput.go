package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
)

// SQLiteDailyInputRepo implements DailyInputRepo using a SQLite database.
type SQLiteDailyInputRepo struct {
	db db.DBTX
}

func NewSQLiteDailyInputRepo(q db.DBTX) *SQLiteDailyInputRepo {
	return &SQLiteDailyInputRepo{db: q}
}

const dailyInputColumns = `id, day, wake_up_time, meditation_minutes, wasted_minutes, created_at`

func (r *SQLiteDailyInputRepo) Create(ctx context.Context, in *domain.DailyInput) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO daily_inputs (`+dailyInputColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID,
		domain.DayKey(in.Day),
		in.WakeUpTime,
		nullableIntToValue(in.MeditationMinutes),
		nullableIntToValue(in.WastedMinutes),
		in.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting daily input: %w", err)
	}
	return nil
}

func (r *SQLiteDailyInputRepo) GetByDay(ctx context.Context, day time.Time) (*domain.DailyInput, error) {
	key := domain.DayKey(day)
	row := r.db.QueryRowContext(ctx, `SELECT `+dailyInputColumns+` FROM daily_inputs WHERE day = ?`, key)
	in, err := scanDailyInput(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("daily input for %s: %w", key, domain.ErrNotFound)
	}
	return in, err
}

// ListRecent returns up to limit inputs, newest day first.
func (r *SQLiteDailyInputRepo) ListRecent(ctx context.Context, limit int) ([]*domain.DailyInput, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dailyInputColumns+` FROM daily_inputs ORDER BY day DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing daily inputs: %w", err)
	}
	defer rows.Close()

	var out []*domain.DailyInput
	for rows.Next() {
		in, err := scanDailyInput(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily inputs: %w", err)
	}
	return out, nil
}

func scanDailyInput(s scanner) (*domain.DailyInput, error) {
	var in domain.DailyInput
	var day, createdAt string
	var meditation, wasted sql.NullInt64
	err := s.Scan(&in.ID, &day, &in.WakeUpTime, &meditation, &wasted, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning daily input: %w", err)
	}
	if in.Day, err = domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("parsing day: %w", err)
	}
	if in.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	in.MeditationMinutes = nullableIntFromValue(meditation)
	in.WastedMinutes = nullableIntFromValue(wasted)
	return &in, nil
}
