package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
// Modules and their tasks are stored positionally; Update rewrites them.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(q db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: q}
}

const projectColumns = `id, title, description, start_date, deadline, status, priority, progress, notes, version, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	p.Version = 1
	_, err := r.db.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Title,
		p.Description,
		domain.DayKey(p.StartDate),
		domain.DayKey(p.Deadline),
		string(p.Status),
		string(p.Priority),
		p.Progress,
		p.Notes,
		p.Version,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return r.writeModules(ctx, p)
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadModules(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY deadline, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	rows.Close()

	for _, p := range projects {
		if err := r.loadModules(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects
		SET title = ?, description = ?, start_date = ?, deadline = ?, status = ?, priority = ?, progress = ?, notes = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		p.Title,
		p.Description,
		domain.DayKey(p.StartDate),
		domain.DayKey(p.Deadline),
		string(p.Status),
		string(p.Priority),
		p.Progress,
		p.Notes,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if err := checkVersioned(ctx, r.db, res, "projects", p.ID); err != nil {
		return err
	}
	p.Version++

	// module_tasks rows cascade from project_modules.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_modules WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing modules: %w", err)
	}
	return r.writeModules(ctx, p)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return checkDeleted(res, "projects", id)
}

func (r *SQLiteProjectRepo) writeModules(ctx context.Context, p *domain.Project) error {
	for mi, m := range p.Modules {
		_, err := r.db.ExecContext(ctx, `INSERT INTO project_modules
			(project_id, idx, name, status, progress, start_date, end_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, mi, m.Name, string(m.Status), m.Progress, nullableDayKey(m.StartDate), nullableDayKey(m.EndDate))
		if err != nil {
			return fmt.Errorf("inserting module %d: %w", mi, err)
		}
		for ti, t := range m.Tasks {
			_, err := r.db.ExecContext(ctx, `INSERT INTO module_tasks
				(project_id, module_idx, idx, title, description, status, priority, due_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, mi, ti, t.Title, t.Description, string(t.Status), string(t.Priority), nullableDayKey(t.DueDate))
			if err != nil {
				return fmt.Errorf("inserting task %d of module %d: %w", ti, mi, err)
			}
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) loadModules(ctx context.Context, p *domain.Project) error {
	rows, err := r.db.QueryContext(ctx, `SELECT name, status, progress, start_date, end_date
		FROM project_modules WHERE project_id = ? ORDER BY idx`, p.ID)
	if err != nil {
		return fmt.Errorf("loading modules: %w", err)
	}
	p.Modules = nil
	for rows.Next() {
		var m domain.Module
		var status string
		var start, end sql.NullString
		if err := rows.Scan(&m.Name, &status, &m.Progress, &start, &end); err != nil {
			rows.Close()
			return fmt.Errorf("scanning module: %w", err)
		}
		m.Status = domain.ModuleStatus(status)
		m.StartDate = parseNullableTime(start, domain.DayLayout)
		m.EndDate = parseNullableTime(end, domain.DayLayout)
		p.Modules = append(p.Modules, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating modules: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `SELECT module_idx, title, description, status, priority, due_date
		FROM module_tasks WHERE project_id = ? ORDER BY module_idx, idx`, p.ID)
	if err != nil {
		return fmt.Errorf("loading module tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mi int
		var t domain.ModuleTask
		var status, priority string
		var due sql.NullString
		if err := rows.Scan(&mi, &t.Title, &t.Description, &status, &priority, &due); err != nil {
			return fmt.Errorf("scanning module task: %w", err)
		}
		if mi < 0 || mi >= len(p.Modules) {
			return fmt.Errorf("module task references missing module %d of project %s", mi, p.ID)
		}
		// Rows written before the migration ran may still say "Done".
		if t.Status, err = domain.NormalizeModuleTaskStatus(domain.ModuleTaskStatus(status)); err != nil {
			return fmt.Errorf("module task status: %w", err)
		}
		t.Priority = domain.Priority(priority)
		t.DueDate = parseNullableTime(due, domain.DayLayout)
		p.Modules[mi].Tasks = append(p.Modules[mi].Tasks, t)
	}
	return rows.Err()
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var start, deadline, status, priority, createdAt, updatedAt string
	err := s.Scan(&p.ID, &p.Title, &p.Description, &start, &deadline, &status, &priority,
		&p.Progress, &p.Notes, &p.Version, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Status = domain.ProjectStatus(status)
	p.Priority = domain.Priority(priority)
	if p.StartDate, err = domain.ParseDay(start); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if p.Deadline, err = domain.ParseDay(deadline); err != nil {
		return nil, fmt.Errorf("parsing deadline: %w", err)
	}
	if p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
