package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepo_GetBeforeCreate(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	yesterday := testutil.Fixed.AddDate(0, 0, -1)
	l := domain.NewPerformanceLedger(yesterday)
	l.Apply(10, nil, yesterday)
	require.NoError(t, repo.Create(ctx, l))

	l.Apply(5, nil, testutil.Fixed)
	l.Apply(-4, &domain.BadEntry{Name: "Wasted Time"}, testutil.Fixed)
	require.NoError(t, repo.Update(ctx, l))
	require.NoError(t, repo.PutRecord(ctx, *l.Today(testutil.Fixed)))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, got.Performance)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.Records, 2)

	today := got.Today(testutil.Fixed)
	require.NotNil(t, today)
	require.Len(t, today.Buckets, 1)
	assert.Equal(t, 5, today.Buckets[0].Good)
	assert.Equal(t, []domain.BadEntry{{Name: "Wasted Time", Score: -4}}, today.Buckets[0].Bad)

	first := got.Today(yesterday)
	require.NotNil(t, first)
	assert.Equal(t, 10, first.GoodTotal())
	assert.Empty(t, first.Buckets[0].Bad)
}

func TestLedgerRepo_PutRecordReplaces(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	l := domain.NewPerformanceLedger(testutil.Fixed)
	require.NoError(t, repo.Create(ctx, l))

	l.Apply(-3, &domain.BadEntry{Name: "Skipped Learning"}, testutil.Fixed)
	require.NoError(t, repo.PutRecord(ctx, *l.Today(testutil.Fixed)))
	l.Apply(-2, &domain.BadEntry{Name: "Procrastinated Task"}, testutil.Fixed)
	require.NoError(t, repo.PutRecord(ctx, *l.Today(testutil.Fixed)))

	records, err := repo.ListRecords(ctx, testutil.Fixed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, -5, records[0].BadTotal())
	assert.Len(t, records[0].Buckets[0].Bad, 2)
}

func TestLedgerRepo_ListRecordsSince(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	l := domain.NewPerformanceLedger(testutil.Fixed)
	for d := 5; d >= 0; d-- {
		l.Apply(1, nil, testutil.Fixed.AddDate(0, 0, -d))
	}
	require.NoError(t, repo.Create(ctx, l))

	records, err := repo.ListRecords(ctx, testutil.Fixed.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, domain.SameDay(records[2].Day, testutil.Fixed))
}

func TestLedgerRepo_StaleUpdateConflicts(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.NewPerformanceLedger(testutil.Fixed)))
	a, err := repo.Get(ctx)
	require.NoError(t, err)
	b, err := repo.Get(ctx)
	require.NoError(t, err)

	a.Apply(10, nil, testutil.Fixed)
	require.NoError(t, repo.Update(ctx, a))
	b.Apply(3, nil, testutil.Fixed)
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrConflict)
}
