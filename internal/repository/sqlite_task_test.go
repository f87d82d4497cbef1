package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteTaskRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	task := testutil.NewTestTask("File taxes")
	require.NoError(t, repo.Create(ctx, task))
	assert.Equal(t, 1, task.Version)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "File taxes", got.Title)
	assert.Equal(t, domain.TaskDeadline, got.Type)
	require.NotNil(t, got.Deadline)
	assert.True(t, task.Deadline.Equal(*got.Deadline))
	assert.Equal(t, domain.TaskPending, got.Status)
	assert.Nil(t, got.LastResetDate)
	assert.Empty(t, got.DailyTracking)
}

func TestTaskRepo_HabitTrackingRoundTrip(t *testing.T) {
	repo := NewSQLiteTaskRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	habit := testutil.NewTestHabit("Stretch", testutil.Fixed.AddDate(0, 0, -1))
	require.NoError(t, repo.Create(ctx, habit))

	require.True(t, habit.EnsureTodayEntry(testutil.Fixed))
	_, err := habit.MarkCompletedToday(testutil.Fixed)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, habit))

	got, err := repo.GetByID(ctx, habit.ID)
	require.NoError(t, err)
	require.Len(t, got.DailyTracking, 2)
	assert.False(t, got.DailyTracking[0].Completed)
	assert.True(t, got.DailyTracking[1].Completed)
	assert.True(t, got.CompletedOn(testutil.Fixed))
	require.NotNil(t, got.LastResetDate)
	assert.True(t, domain.SameDay(*got.LastResetDate, testutil.Fixed))
	assert.Equal(t, 2, got.Version)
}

func TestTaskRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteTaskRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepo_ListFilters(t *testing.T) {
	repo := NewSQLiteTaskRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("a")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("b", testutil.WithTaskStatus(domain.TaskCompleted))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestHabit("c", testutil.Fixed)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("d", testutil.WithTaskType(domain.TaskProcrastinating))))

	all, err := repo.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	habits, err := repo.List(ctx, TaskFilter{Type: domain.TaskNonNegotiable})
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "c", habits[0].Title)
	assert.Len(t, habits[0].DailyTracking, 1)

	pending, err := repo.List(ctx, TaskFilter{Type: domain.TaskDeadline, Status: domain.TaskPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].Title)
}

func TestTaskRepo_StaleUpdateConflicts(t *testing.T) {
	repo := NewSQLiteTaskRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	task := testutil.NewTestTask("Race")
	require.NoError(t, repo.Create(ctx, task))

	first, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)

	first.Title = "first"
	require.NoError(t, repo.Update(ctx, first))

	second.Title = "second"
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}

func TestTaskRepo_UpdateMissing(t *testing.T) {
	repo := NewSQLiteTaskRepo(testutil.NewTestDB(t))

	err := repo.Update(context.Background(), testutil.NewTestTask("ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepo_DeleteCascadesTracking(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(database)
	ctx := context.Background()

	habit := testutil.NewTestHabit("Read", testutil.Fixed)
	require.NoError(t, repo.Create(ctx, habit))
	require.NoError(t, repo.Delete(ctx, habit.ID))

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM task_daily_tracking`).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, habit.ID), domain.ErrNotFound)
}
