package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestProject("Kaizen",
		testutil.WithProjectPriority(domain.PriorityHigh),
		testutil.WithModule("Design", domain.PriorityHigh, domain.PriorityLow),
		testutil.WithModule("Build", domain.PriorityMedium, domain.PriorityMedium, domain.PriorityMedium),
	)
	_, err := p.SetTaskStatus(0, 0, true, testutil.Fixed)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.True(t, domain.SameDay(p.StartDate, got.StartDate))
	assert.True(t, domain.SameDay(p.Deadline, got.Deadline))
	require.Len(t, got.Modules, 2)
	assert.Equal(t, 50, got.Modules[0].Progress)
	assert.Equal(t, domain.ModuleInProgress, got.Modules[0].Status)
	require.Len(t, got.Modules[1].Tasks, 3)
	assert.Equal(t, domain.ModuleTaskCompleted, got.Modules[0].Tasks[0].Status)
	assert.Equal(t, domain.PriorityLow, got.Modules[0].Tasks[1].Priority)
	assert.Equal(t, 25, got.Progress)
	assert.Equal(t, domain.ProjectInProgress, got.Status)
}

func TestProjectRepo_UpdateRewritesModules(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestProject("Shrink", testutil.WithModule("A", domain.PriorityLow), testutil.WithModule("B", domain.PriorityLow))
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.ReplaceModules([]domain.Module{{
		Name:  "Only",
		Tasks: []domain.ModuleTask{{Title: "x", Status: domain.ModuleTaskCompleted}},
	}}, testutil.Fixed))
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Modules, 1)
	assert.Equal(t, "Only", got.Modules[0].Name)
	assert.Equal(t, domain.ProjectCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
}

func TestProjectRepo_StaleUpdateConflicts(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestProject("Race", testutil.WithModule("M", domain.PriorityLow))
	require.NoError(t, repo.Create(ctx, p))

	stale, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	p.Notes = "fresh"
	require.NoError(t, repo.Update(ctx, p))

	stale.Notes = "stale"
	assert.ErrorIs(t, repo.Update(ctx, stale), domain.ErrConflict)
}

func TestProjectRepo_ListOrdersByDeadline(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	late := testutil.NewTestProject("Late")
	early := testutil.NewTestProject("Early")
	early.Deadline = early.StartDate.AddDate(0, 0, 3)
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Early", all[0].Title)
	assert.Empty(t, all[0].Modules)
}

func TestProjectRepo_LoadsLegacyDoneTasks(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Legacy", testutil.WithModule("M", domain.PriorityLow))
	require.NoError(t, repo.Create(ctx, p))
	_, err := database.Exec(`UPDATE module_tasks SET status = 'Done' WHERE project_id = ?`, p.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleTaskCompleted, got.Modules[0].Tasks[0].Status)
}
