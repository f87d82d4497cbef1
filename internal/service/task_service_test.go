package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CreateHabitSeedsToday(t *testing.T) {
	h := newHarness(t)

	task, err := h.tasks.Create(context.Background(), "Meditate", domain.TaskNonNegotiable, nil)
	require.NoError(t, err)

	got, err := h.tasks.Get(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, got.DailyTracking, 1)
	assert.True(t, domain.SameDay(got.DailyTracking[0].Date, testutil.Fixed))
	assert.False(t, got.DailyTracking[0].Completed)
}

func TestTaskService_CreateRejectsDeadlineTaskWithoutDeadline(t *testing.T) {
	h := newHarness(t)

	_, err := h.tasks.Create(context.Background(), "Ship", domain.TaskDeadline, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_EnsureTodayEntriesIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := repository.NewSQLiteTaskRepo(h.db)

	yesterday := testutil.Fixed.AddDate(0, 0, -1)
	a := testutil.NewTestHabit("a", yesterday)
	b := testutil.NewTestHabit("b", testutil.Fixed)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("one-shot")))

	changed, err := h.tasks.EnsureTodayEntries(ctx, testutil.Fixed)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = h.tasks.EnsureTodayEntries(ctx, testutil.Fixed.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, changed)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	count := 0
	for _, e := range got.DailyTracking {
		if domain.SameDay(e.Date, testutil.Fixed) {
			count++
		}
	}
	assert.Equal(t, 1, count)
	require.NotNil(t, got.LastResetDate)
	assert.True(t, domain.SameDay(*got.LastResetDate, testutil.Fixed))
}

func TestTaskService_MarkCompletedTodayScoresOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	habit, err := h.tasks.Create(ctx, "Walk", domain.TaskNonNegotiable, nil)
	require.NoError(t, err)

	got, err := h.tasks.MarkCompletedToday(ctx, habit.ID, testutil.Fixed)
	require.NoError(t, err)
	assert.True(t, got.CompletedOn(testutil.Fixed))
	assert.Equal(t, 10, h.performance(t))

	_, err = h.tasks.MarkCompletedToday(ctx, habit.ID, testutil.Fixed)
	require.NoError(t, err)
	assert.Equal(t, 10, h.performance(t), "second completion on the same day is a no-op")
}

func TestTaskService_MarkCompletedTodayCreatesMissingEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := repository.NewSQLiteTaskRepo(h.db)

	habit := testutil.NewTestHabit("Journal", testutil.Fixed.AddDate(0, 0, -2))
	require.NoError(t, repo.Create(ctx, habit))

	got, err := h.tasks.MarkCompletedToday(ctx, habit.ID, testutil.Fixed)
	require.NoError(t, err)
	require.Len(t, got.DailyTracking, 2)
	assert.True(t, got.DailyTracking[1].Completed)
	assert.True(t, domain.SameDay(*got.LastResetDate, testutil.Fixed))
}

func TestTaskService_MarkCompletedTodayRejectsOneShot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	deadline := testutil.Fixed.AddDate(0, 0, 1)
	task, err := h.tasks.Create(ctx, "Report", domain.TaskDeadline, &deadline)
	require.NoError(t, err)

	_, err = h.tasks.MarkCompletedToday(ctx, task.ID, testutil.Fixed)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, h.performance(t))

	_, err = h.tasks.MarkCompletedToday(ctx, "missing", testutil.Fixed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_SetStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	deadline := testutil.Fixed.AddDate(0, 0, 1)
	task, err := h.tasks.Create(ctx, "Report", domain.TaskDeadline, &deadline)
	require.NoError(t, err)

	got, err := h.tasks.SetStatus(ctx, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	assert.Equal(t, 10, h.performance(t))

	_, err = h.tasks.SetStatus(ctx, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 10, h.performance(t))

	got, err = h.tasks.SetStatus(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, got.Status)
	assert.Equal(t, 10, h.performance(t), "reopening is not penalized")
}

func TestTaskService_ListHidesCompletedAndResetsHabits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := repository.NewSQLiteTaskRepo(h.db)

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("open")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("done", testutil.WithTaskStatus(domain.TaskCompleted))))
	stale := testutil.NewTestHabit("stale", testutil.Fixed.AddDate(0, 0, -1))
	require.NoError(t, repo.Create(ctx, stale))

	open, err := h.tasks.List(ctx, TaskQuery{})
	require.NoError(t, err)
	titles := make([]string, 0, len(open))
	for _, task := range open {
		titles = append(titles, task.Title)
	}
	assert.ElementsMatch(t, []string{"open", "stale"}, titles)

	all, err := h.tasks.List(ctx, TaskQuery{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Len(t, got.DailyTracking, 2, "listing rolls habits over to today")
}

func TestTaskService_MarkProcrastinated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	task, err := h.tasks.Create(ctx, "Taxes", domain.TaskProcrastinating, nil)
	require.NoError(t, err)

	_, err = h.tasks.MarkProcrastinated(ctx, task.ID)
	require.NoError(t, err)

	ledger, err := h.perf.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, -5, ledger.Performance)
	assert.Equal(t, []domain.BadEntry{{Name: "Procrastinated Task", Score: -5}}, ledger.Today(testutil.Fixed).Buckets[0].Bad)
}

func TestTaskService_Delete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	task, err := h.tasks.Create(ctx, "Gone", domain.TaskProcrastinating, nil)
	require.NoError(t, err)
	require.NoError(t, h.tasks.Delete(ctx, task.ID))

	_, err = h.tasks.Get(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
