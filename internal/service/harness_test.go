package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/cenkalti/backoff/v4"
)

// harness wires every service over one database with a fixed clock.
type harness struct {
	db        *sql.DB
	clock     *fakeClock
	perf      PerformanceService
	events    EventRecorder
	tasks     TaskService
	learnings LearningService
	projects  ProjectService
	inputs    DailyInputService
	dashboard DashboardService
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, testutil.NewTestDB(t), io.Discard)
}

func newHarnessOn(t *testing.T, database *sql.DB, logOut io.Writer) *harness {
	t.Helper()
	clock := &fakeClock{now: testutil.Fixed}
	uow := db.NewSQLiteUnitOfWork(database)
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	h := &harness{db: database, clock: clock}
	h.perf = NewPerformanceService(repository.NewSQLiteLedgerRepo(database), uow, clock.Now, nil)
	h.events = fastRecorder(NewScoreRecorder(h.perf, logger, 3, nil))
	h.tasks = NewTaskService(repository.NewSQLiteTaskRepo(database), uow, h.events, clock.Now)
	h.learnings = NewLearningService(repository.NewSQLiteLearningRepo(database), uow, h.events, clock.Now)
	h.projects = NewProjectService(repository.NewSQLiteProjectRepo(database), uow, h.events, clock.Now)
	h.inputs = NewDailyInputService(repository.NewSQLiteDailyInputRepo(database), uow, h.events, 7*60)
	h.dashboard = NewDashboardService(h.tasks, h.learnings, h.projects, h.perf, h.inputs)
	return h
}

// fastRecorder removes the retry delay so tests do not sleep.
func fastRecorder(r EventRecorder) EventRecorder {
	if sr, ok := r.(*scoreRecorder); ok {
		sr.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	}
	return r
}

func (h *harness) performance(t *testing.T) int {
	t.Helper()
	ledger, err := h.perf.Get(context.Background())
	if err != nil {
		t.Fatalf("reading ledger: %v", err)
	}
	return ledger.Performance
}

// syncBuffer is a bytes.Buffer safe for concurrent log writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (h *harness) uowFor() db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(h.db)
}
