package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateNormalizeDoneTasks(db); err != nil {
		return fmt.Errorf("normalizing module task status: %w", err)
	}
	return nil
}

// migrateNormalizeDoneTasks rewrites the legacy "Done" module task status to
// "Completed" and re-derives module and project progress and status for the
// affected projects, following domain.Project.Recompute.
func migrateNormalizeDoneTasks(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM module_tasks WHERE status = 'Done'`).Scan(&count); err != nil {
		return fmt.Errorf("counting legacy rows: %w", err)
	}
	if count == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	projectIDs, err := legacyDoneProjects(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE module_tasks SET status = 'Completed' WHERE status = 'Done'`); err != nil {
		return fmt.Errorf("rewriting status: %w", err)
	}
	for _, id := range projectIDs {
		for _, stmt := range rederiveProject {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("re-deriving project %s: %w", id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing status migration: %w", err)
	}
	committed = true
	return nil
}

func legacyDoneProjects(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT DISTINCT project_id FROM module_tasks WHERE status = 'Done'`)
	if err != nil {
		return nil, fmt.Errorf("listing legacy projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning legacy project: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rederiveProject recomputes one project (bound as ?) from its task rows.
// Modules without tasks keep their stored progress and status; a project
// without modules is left untouched. An On Hold project stays on hold until
// every module is completed.
var rederiveProject = []string{
	`UPDATE project_modules SET progress = (
			SELECT CAST(ROUND(100.0 * SUM(CASE WHEN t.status = 'Completed' THEN 1 ELSE 0 END) / COUNT(*)) AS INTEGER)
			FROM module_tasks t
			WHERE t.project_id = project_modules.project_id AND t.module_idx = project_modules.idx
		)
		WHERE project_id = ?1 AND EXISTS (
			SELECT 1 FROM module_tasks t
			WHERE t.project_id = project_modules.project_id AND t.module_idx = project_modules.idx
		)`,
	`UPDATE project_modules SET status = CASE progress
			WHEN 100 THEN 'Completed'
			WHEN 0 THEN 'Not Started'
			ELSE 'In Progress'
		END
		WHERE project_id = ?1 AND EXISTS (
			SELECT 1 FROM module_tasks t
			WHERE t.project_id = project_modules.project_id AND t.module_idx = project_modules.idx
		)`,
	`UPDATE projects SET
		progress = (
			SELECT CAST(ROUND(AVG(m.progress)) AS INTEGER)
			FROM project_modules m WHERE m.project_id = projects.id
		),
		status = CASE
			WHEN NOT EXISTS (SELECT 1 FROM project_modules m
				WHERE m.project_id = projects.id AND m.status <> 'Completed') THEN 'Completed'
			WHEN status = 'On Hold' THEN 'On Hold'
			WHEN EXISTS (SELECT 1 FROM project_modules m
				WHERE m.project_id = projects.id AND m.status = 'In Progress') THEN 'In Progress'
			WHEN NOT EXISTS (SELECT 1 FROM project_modules m
				WHERE m.project_id = projects.id AND m.status <> 'Not Started') THEN 'Planning'
			ELSE 'In Progress'
		END,
		version = version + 1
		WHERE id = ?1 AND EXISTS (SELECT 1 FROM project_modules m WHERE m.project_id = projects.id)`,
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		type            TEXT NOT NULL
		                CHECK(type IN ('deadline','nonNegotiable','procrastinating')),
		deadline        TEXT,
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK(status IN ('pending','completed')),
		last_reset_date TEXT,
		version         INTEGER NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_type ON tasks(type)`,
	`CREATE TABLE IF NOT EXISTS task_daily_tracking (
		task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		day       TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS learnings (
		id                    TEXT PRIMARY KEY,
		title                 TEXT NOT NULL,
		no_of_chapters        INTEGER NOT NULL CHECK(no_of_chapters > 0),
		current_chapter_index INTEGER NOT NULL DEFAULT 0,
		completed_chapters    INTEGER NOT NULL DEFAULT 0,
		status                TEXT NOT NULL DEFAULT 'Not Started'
		                      CHECK(status IN ('Not Started','In Progress','Completed')),
		notes                 TEXT NOT NULL DEFAULT '',
		version               INTEGER NOT NULL DEFAULT 1,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS learning_chapters (
		learning_id TEXT NOT NULL REFERENCES learnings(id) ON DELETE CASCADE,
		idx         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (learning_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		deadline    TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'Planning'
		            CHECK(status IN ('Planning','In Progress','On Hold','Completed')),
		priority    TEXT NOT NULL DEFAULT 'Medium'
		            CHECK(priority IN ('Low','Medium','High')),
		progress    INTEGER NOT NULL DEFAULT 0,
		notes       TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_modules (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		idx        INTEGER NOT NULL,
		name       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'Not Started'
		           CHECK(status IN ('Not Started','In Progress','Completed')),
		progress   INTEGER NOT NULL DEFAULT 0,
		start_date TEXT,
		end_date   TEXT,
		PRIMARY KEY (project_id, idx)
	)`,
	// 'Done' is a legacy spelling rewritten by migrateNormalizeDoneTasks.
	`CREATE TABLE IF NOT EXISTS module_tasks (
		project_id  TEXT NOT NULL,
		module_idx  INTEGER NOT NULL,
		idx         INTEGER NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'Pending'
		            CHECK(status IN ('Pending','In Progress','Completed','Done')),
		priority    TEXT NOT NULL DEFAULT 'Medium'
		            CHECK(priority IN ('Low','Medium','High')),
		due_date    TEXT,
		PRIMARY KEY (project_id, module_idx, idx),
		FOREIGN KEY (project_id, module_idx) REFERENCES project_modules(project_id, idx) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS performance_ledger (
		id          TEXT PRIMARY KEY DEFAULT 'default',
		performance INTEGER NOT NULL DEFAULT 0,
		version     INTEGER NOT NULL DEFAULT 1,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_records (
		day  TEXT PRIMARY KEY,
		good INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_bad_entries (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		day   TEXT NOT NULL REFERENCES ledger_records(day) ON DELETE CASCADE,
		name  TEXT NOT NULL,
		score INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_bad_day ON ledger_bad_entries(day)`,
	`CREATE TABLE IF NOT EXISTS daily_inputs (
		id                 TEXT PRIMARY KEY,
		day                TEXT NOT NULL UNIQUE,
		wake_up_time       TEXT NOT NULL DEFAULT '',
		meditation_minutes INTEGER,
		wasted_minutes     INTEGER,
		created_at         TEXT NOT NULL
	)`,
}
