package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"tasks", "task_daily_tracking",
		"learnings", "learning_chapters",
		"projects", "project_modules", "module_tasks",
		"performance_ledger", "ledger_records", "ledger_bad_entries",
		"daily_inputs",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_OneTrackingEntryPerDay(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (id, title, type, created_at, updated_at)
		VALUES ('t1', 'Stretch', 'nonNegotiable', '2025-06-15T10:00:00Z', '2025-06-15T10:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO task_daily_tracking (task_id, day, completed) VALUES ('t1', '2025-06-15', 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO task_daily_tracking (task_id, day, completed) VALUES ('t1', '2025-06-15', 1)`)
	assert.Error(t, err, "primary key must reject a second entry for the same day")
}

func TestMigrate_NormalizesLegacyDoneStatus(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, title, start_date, deadline, created_at, updated_at)
			VALUES ('p1', 'Legacy', '2025-06-01', '2025-07-01', '2025-06-01T00:00:00Z', '2025-06-01T00:00:00Z')`,
		`INSERT INTO project_modules (project_id, idx, name, progress) VALUES ('p1', 0, 'M', 0)`,
		`INSERT INTO module_tasks (project_id, module_idx, idx, title, status) VALUES ('p1', 0, 0, 'a', 'Done')`,
		`INSERT INTO module_tasks (project_id, module_idx, idx, title, status) VALUES ('p1', 0, 1, 'b', 'Pending')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM module_tasks WHERE idx = 0`).Scan(&status))
	assert.Equal(t, "Completed", status)

	var progress int
	require.NoError(t, db.QueryRow(`SELECT progress, status FROM project_modules WHERE project_id = 'p1'`).Scan(&progress, &status))
	assert.Equal(t, 50, progress)
	assert.Equal(t, "In Progress", status)

	require.NoError(t, db.QueryRow(`SELECT progress, status FROM projects WHERE id = 'p1'`).Scan(&progress, &status))
	assert.Equal(t, 50, progress)
	assert.Equal(t, "In Progress", status)
}

func TestMigrate_LegacyDoneRederivesProjectState(t *testing.T) {
	tests := []struct {
		name           string
		projectStatus  string
		doneTasks      []string
		wantModule     string
		wantProgress   int
		wantProjStatus string
	}{
		{"all done completes module and project", "Planning", []string{"Done", "Done"}, "Completed", 100, "Completed"},
		{"all done overrides a hold", "On Hold", []string{"Done", "Done"}, "Completed", 100, "Completed"},
		{"partial progress keeps a hold", "On Hold", []string{"Done", "Pending"}, "In Progress", 50, "On Hold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)

			_, err := db.Exec(`INSERT INTO projects (id, title, start_date, deadline, status, created_at, updated_at)
				VALUES ('p1', 'Legacy', '2025-06-01', '2025-07-01', ?, '2025-06-01T00:00:00Z', '2025-06-01T00:00:00Z')`, tt.projectStatus)
			require.NoError(t, err)
			_, err = db.Exec(`INSERT INTO project_modules (project_id, idx, name, status, progress) VALUES ('p1', 0, 'M', 'Not Started', 0)`)
			require.NoError(t, err)
			for i, st := range tt.doneTasks {
				_, err = db.Exec(`INSERT INTO module_tasks (project_id, module_idx, idx, title, status) VALUES ('p1', 0, ?, 'task', ?)`, i, st)
				require.NoError(t, err)
			}

			require.NoError(t, Migrate(db))

			var progress, version int
			var status string
			require.NoError(t, db.QueryRow(`SELECT progress, status FROM project_modules WHERE project_id = 'p1'`).Scan(&progress, &status))
			assert.Equal(t, tt.wantProgress, progress)
			assert.Equal(t, tt.wantModule, status)

			require.NoError(t, db.QueryRow(`SELECT progress, status, version FROM projects WHERE id = 'p1'`).Scan(&progress, &status, &version))
			assert.Equal(t, tt.wantProgress, progress)
			assert.Equal(t, tt.wantProjStatus, status)
			assert.Equal(t, 2, version)
		})
	}
}

func TestMigrate_LegacyDoneLeavesOtherProjectsAlone(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, title, start_date, deadline, status, progress, created_at, updated_at)
			VALUES ('p1', 'Legacy', '2025-06-01', '2025-07-01', 'Planning', 0, '2025-06-01T00:00:00Z', '2025-06-01T00:00:00Z')`,
		`INSERT INTO project_modules (project_id, idx, name) VALUES ('p1', 0, 'M')`,
		`INSERT INTO module_tasks (project_id, module_idx, idx, title, status) VALUES ('p1', 0, 0, 'a', 'Done')`,
		`INSERT INTO projects (id, title, start_date, deadline, status, progress, created_at, updated_at)
			VALUES ('p2', 'Current', '2025-06-01', '2025-07-01', 'On Hold', 0, '2025-06-01T00:00:00Z', '2025-06-01T00:00:00Z')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var status string
	var version int
	require.NoError(t, db.QueryRow(`SELECT status, version FROM projects WHERE id = 'p2'`).Scan(&status, &version))
	assert.Equal(t, "On Hold", status)
	assert.Equal(t, 1, version)
}

func TestMigrate_CascadesProjectDelete(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, title, start_date, deadline, created_at, updated_at)
			VALUES ('p1', 'Gone', '2025-06-01', '2025-07-01', '2025-06-01T00:00:00Z', '2025-06-01T00:00:00Z')`,
		`INSERT INTO project_modules (project_id, idx, name) VALUES ('p1', 0, 'M')`,
		`INSERT INTO module_tasks (project_id, module_idx, idx, title) VALUES ('p1', 0, 0, 'a')`,
		`DELETE FROM projects WHERE id = 'p1'`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM module_tasks`).Scan(&n))
	assert.Zero(t, n)
}
