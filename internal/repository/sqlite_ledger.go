package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
)

// SQLiteLedgerRepo implements LedgerRepo. The running total and version live
// in performance_ledger; each day's bucket is a ledger_records row plus its
// itemized ledger_bad_entries.
type SQLiteLedgerRepo struct {
	db db.DBTX
}

func NewSQLiteLedgerRepo(q db.DBTX) *SQLiteLedgerRepo {
	return &SQLiteLedgerRepo{db: q}
}

func (r *SQLiteLedgerRepo) Get(ctx context.Context) (*domain.PerformanceLedger, error) {
	var l domain.PerformanceLedger
	var updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, performance, version, updated_at FROM performance_ledger WHERE id = ?`, domain.LedgerID,
	).Scan(&l.ID, &l.Performance, &l.Version, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("performance ledger: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning performance ledger: %w", err)
	}
	if l.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if l.Records, err = r.ListRecords(ctx, time.Time{}); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteLedgerRepo) Create(ctx context.Context, l *domain.PerformanceLedger) error {
	l.Version = 1
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO performance_ledger (id, performance, version, updated_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Performance, l.Version, l.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting performance ledger: %w", err)
	}
	for _, rec := range l.Records {
		if err := r.PutRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteLedgerRepo) Update(ctx context.Context, l *domain.PerformanceLedger) error {
	res, err := r.db.ExecContext(ctx, `UPDATE performance_ledger
		SET performance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		l.Performance, l.UpdatedAt.Format(time.RFC3339), l.ID, l.Version)
	if err != nil {
		return fmt.Errorf("updating performance ledger: %w", err)
	}
	if err := checkVersioned(ctx, r.db, res, "performance_ledger", l.ID); err != nil {
		return err
	}
	l.Version++
	return nil
}

func (r *SQLiteLedgerRepo) PutRecord(ctx context.Context, rec domain.LedgerRecord) error {
	day := domain.DayKey(rec.Day)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_records (day, good) VALUES (?, ?)
		 ON CONFLICT(day) DO UPDATE SET good = excluded.good`,
		day, rec.GoodTotal())
	if err != nil {
		return fmt.Errorf("upserting ledger record %s: %w", day, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ledger_bad_entries WHERE day = ?`, day); err != nil {
		return fmt.Errorf("clearing bad entries for %s: %w", day, err)
	}
	for _, b := range rec.Buckets {
		for _, e := range b.Bad {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO ledger_bad_entries (day, name, score) VALUES (?, ?, ?)`, day, e.Name, e.Score)
			if err != nil {
				return fmt.Errorf("inserting bad entry for %s: %w", day, err)
			}
		}
	}
	return nil
}

// ListRecords returns the records on or after since's day, oldest first.
// A zero since returns every record.
func (r *SQLiteLedgerRepo) ListRecords(ctx context.Context, since time.Time) ([]domain.LedgerRecord, error) {
	from := ""
	if !since.IsZero() {
		from = domain.DayKey(since)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, good FROM ledger_records WHERE day >= ? ORDER BY day`, from)
	if err != nil {
		return nil, fmt.Errorf("listing ledger records: %w", err)
	}
	var records []domain.LedgerRecord
	index := make(map[string]int)
	for rows.Next() {
		var day string
		var good int
		if err := rows.Scan(&day, &good); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning ledger record: %w", err)
		}
		d, err := domain.ParseDay(day)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing ledger day: %w", err)
		}
		index[day] = len(records)
		records = append(records, domain.LedgerRecord{
			Day:     d,
			Buckets: []domain.Bucket{{Good: good, Bad: []domain.BadEntry{}}},
		})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating ledger records: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT day, name, score FROM ledger_bad_entries WHERE day >= ? ORDER BY day, id`, from)
	if err != nil {
		return nil, fmt.Errorf("listing bad entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day, name string
		var score int
		if err := rows.Scan(&day, &name, &score); err != nil {
			return nil, fmt.Errorf("scanning bad entry: %w", err)
		}
		i, ok := index[day]
		if !ok {
			continue
		}
		b := &records[i].Buckets[0]
		b.Bad = append(b.Bad, domain.BadEntry{Name: name, Score: score})
	}
	return records, rows.Err()
}
