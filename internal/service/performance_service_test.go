package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvent_LedgerAccumulation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.perf.RecordEvent(ctx, "task", "completed", scoring.Params{})
	require.NoError(t, err)
	assert.Equal(t, RecordResult{Score: 10, Performance: 10}, res)

	res, err = h.perf.RecordEvent(ctx, "dailyInput", "wastedTime", scoring.Params{Minutes: 45})
	require.NoError(t, err)
	assert.Equal(t, RecordResult{Score: -4, Performance: 6}, res)

	ledger, err := h.perf.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, ledger.Performance)
	today := ledger.Today(testutil.Fixed)
	require.NotNil(t, today)
	require.Len(t, today.Buckets, 1)
	assert.Equal(t, 10, today.Buckets[0].Good)
	assert.Equal(t, []domain.BadEntry{{Name: "Wasted Time", Score: -4}}, today.Buckets[0].Bad)
}

func TestRecordEvent_UnknownIsNoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.perf.RecordEvent(ctx, "task", "completed", scoring.Params{})
	require.NoError(t, err)

	res, err := h.perf.RecordEvent(ctx, "unknown", "nope", scoring.Params{})
	require.NoError(t, err)
	assert.Equal(t, RecordResult{Score: 0, Performance: 10}, res)

	ledger, err := h.perf.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, ledger.Performance)
	assert.Equal(t, 2, ledger.Version, "a zero score must not write")
}

func TestRecordEvent_ZeroScoreOnEmptyLedgerCreatesNothing(t *testing.T) {
	h := newHarness(t)

	res, err := h.perf.RecordEvent(context.Background(), "dailyInput", "wastedTime", scoring.Params{Minutes: 9})
	require.NoError(t, err)
	assert.Equal(t, RecordResult{}, res)

	_, err = repository.NewSQLiteLedgerRepo(h.db).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordEvent_NewDayOpensNewRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.perf.Record(ctx, scoring.LearningChapterCompleted, scoring.Params{})
	require.NoError(t, err)
	h.clock.Set(testutil.Fixed.AddDate(0, 0, 1))
	_, err = h.perf.Record(ctx, scoring.LearningSessionSkipped, scoring.Params{})
	require.NoError(t, err)

	ledger, err := h.perf.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.Performance)
	require.Len(t, ledger.Records, 2)
	assert.Equal(t, 5, ledger.Records[0].GoodTotal())
	assert.Equal(t, -4, ledger.Records[1].BadTotal())
	assert.Zero(t, ledger.Records[1].GoodTotal())
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for d := 3; d >= 0; d-- {
		h.clock.Set(testutil.Fixed.AddDate(0, 0, -d))
		_, err := h.perf.Record(ctx, scoring.TaskCompleted, scoring.Params{})
		require.NoError(t, err)
		_, err = h.perf.Record(ctx, scoring.TaskProcrastinated, scoring.Params{})
		require.NoError(t, err)
	}

	days, err := h.perf.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, DayScore{Day: days[1].Day, Good: 10, Bad: -5, Net: 5}, days[1])
	assert.True(t, domain.SameDay(days[1].Day, testutil.Fixed))

	_, err = h.perf.History(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordEvent_ConcurrentWritersLoseNothing(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	repo := repository.NewSQLiteLedgerRepo(database)
	clock := func() time.Time { return testutil.Fixed }

	// Two services model two processes: separate mutexes, one database.
	services := []PerformanceService{
		NewPerformanceService(repo, uow, clock, nil),
		NewPerformanceService(repo, uow, clock, nil),
	}

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := services[i%2].Record(context.Background(), scoring.TaskCompleted, scoring.Params{}); err != nil {
				t.Errorf("writer %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	ledger, err := services[0].Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10*writers, ledger.Performance)
	assert.Equal(t, 10*writers, ledger.Today(testutil.Fixed).GoodTotal())
}

func TestRecordEvent_UpdatesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	database := testutil.NewTestDB(t)
	perf := NewPerformanceService(repository.NewSQLiteLedgerRepo(database), db.NewSQLiteUnitOfWork(database),
		func() time.Time { return testutil.Fixed }, metrics, metrics)

	_, err = perf.Record(context.Background(), scoring.ProjectModuleCompleted, scoring.Params{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.scoreEvents.WithLabelValues("project", "moduleCompleted")))
	assert.Equal(t, 20.0, promtest.ToFloat64(metrics.performance))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.useCases.WithLabelValues("record-event", "ok")))
}
