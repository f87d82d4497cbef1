package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
)

// SQLiteLearningRepo implements LearningRepo using a SQLite database.
// Chapter names and completion flags live in learning_chapters, one row per chapter.
type SQLiteLearningRepo struct {
	db db.DBTX
}

func NewSQLiteLearningRepo(q db.DBTX) *SQLiteLearningRepo {
	return &SQLiteLearningRepo{db: q}
}

const learningColumns = `id, title, no_of_chapters, current_chapter_index, completed_chapters, status, notes, version, created_at, updated_at`

func (r *SQLiteLearningRepo) Create(ctx context.Context, l *domain.Learning) error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.Version = 1
	_, err := r.db.ExecContext(ctx, `INSERT INTO learnings (`+learningColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.Title,
		l.NoOfChapters,
		l.CurrentChapterIndex,
		l.CompletedChapters,
		string(l.Status),
		l.Notes,
		l.Version,
		l.CreatedAt.Format(time.RFC3339),
		l.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting learning: %w", err)
	}
	return r.writeChapters(ctx, l)
}

func (r *SQLiteLearningRepo) GetByID(ctx context.Context, id string) (*domain.Learning, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+learningColumns+` FROM learnings WHERE id = ?`, id)
	l, err := scanLearning(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("learning %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChapters(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteLearningRepo) List(ctx context.Context) ([]*domain.Learning, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+learningColumns+` FROM learnings ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing learnings: %w", err)
	}
	var out []*domain.Learning
	for rows.Next() {
		l, err := scanLearning(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating learnings: %w", err)
	}
	rows.Close()

	for _, l := range out {
		if err := r.loadChapters(ctx, l); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteLearningRepo) Update(ctx context.Context, l *domain.Learning) error {
	if err := l.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE learnings
		SET title = ?, no_of_chapters = ?, current_chapter_index = ?, completed_chapters = ?, status = ?, notes = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		l.Title,
		l.NoOfChapters,
		l.CurrentChapterIndex,
		l.CompletedChapters,
		string(l.Status),
		l.Notes,
		l.UpdatedAt.Format(time.RFC3339),
		l.ID,
		l.Version,
	)
	if err != nil {
		return fmt.Errorf("updating learning: %w", err)
	}
	if err := checkVersioned(ctx, r.db, res, "learnings", l.ID); err != nil {
		return err
	}
	l.Version++

	if _, err := r.db.ExecContext(ctx, `DELETE FROM learning_chapters WHERE learning_id = ?`, l.ID); err != nil {
		return fmt.Errorf("clearing chapters: %w", err)
	}
	return r.writeChapters(ctx, l)
}

func (r *SQLiteLearningRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM learnings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting learning: %w", err)
	}
	return checkDeleted(res, "learnings", id)
}

func (r *SQLiteLearningRepo) writeChapters(ctx context.Context, l *domain.Learning) error {
	for i, name := range l.ChapterNames {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO learning_chapters (learning_id, idx, name, completed) VALUES (?, ?, ?, ?)`,
			l.ID, i, name, boolToInt(l.Progress.IsChapterComplete(i)))
		if err != nil {
			return fmt.Errorf("inserting chapter %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteLearningRepo) loadChapters(ctx context.Context, l *domain.Learning) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, completed FROM learning_chapters WHERE learning_id = ? ORDER BY idx`, l.ID)
	if err != nil {
		return fmt.Errorf("loading chapters: %w", err)
	}
	defer rows.Close()

	l.ChapterNames = make([]string, 0, l.NoOfChapters)
	l.Progress = make(domain.ChapterSet, 0, l.NoOfChapters)
	for rows.Next() {
		var name string
		var completed int
		if err := rows.Scan(&name, &completed); err != nil {
			return fmt.Errorf("scanning chapter: %w", err)
		}
		l.ChapterNames = append(l.ChapterNames, name)
		l.Progress = append(l.Progress, intToBool(completed))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating chapters: %w", err)
	}
	return nil
}

func scanLearning(s scanner) (*domain.Learning, error) {
	var l domain.Learning
	var status, createdAt, updatedAt string
	err := s.Scan(&l.ID, &l.Title, &l.NoOfChapters, &l.CurrentChapterIndex, &l.CompletedChapters,
		&status, &l.Notes, &l.Version, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning learning: %w", err)
	}
	l.Status = domain.LearningStatus(status)
	if l.CreatedAt, l.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
