package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/alexanderramin/kaizen/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router http.Handler
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	ts := &testServer{now: testutil.Fixed}
	clock := func() time.Time { return ts.now }

	reg := prometheus.NewRegistry()
	metrics, err := service.NewMetrics(reg)
	require.NoError(t, err)

	perf := service.NewPerformanceService(repository.NewSQLiteLedgerRepo(database), uow, clock, metrics, metrics)
	events := service.NewScoreRecorder(perf, slog.New(slog.NewTextHandler(io.Discard, nil)), 0, metrics)
	tasks := service.NewTaskService(repository.NewSQLiteTaskRepo(database), uow, events, clock, metrics)
	learnings := service.NewLearningService(repository.NewSQLiteLearningRepo(database), uow, events, clock, metrics)
	projects := service.NewProjectService(repository.NewSQLiteProjectRepo(database), uow, events, clock, metrics)
	inputs := service.NewDailyInputService(repository.NewSQLiteDailyInputRepo(database), uow, events, 7*60, metrics)

	h := &Handler{
		Tasks:       tasks,
		Learnings:   learnings,
		Projects:    projects,
		Performance: perf,
		Inputs:      inputs,
		Dashboard:   service.NewDashboardService(tasks, learnings, projects, perf, inputs),
		Now:         clock,
	}
	ts.router = NewRouter(h, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Gatherer:       reg,
		Health:         database.PingContext,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestTasksAPI_HabitLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Meditate", "type": "nonNegotiable"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[taskView](t, rec)
	assert.Equal(t, "2025-06-15", *created.LastResetDate)
	assert.False(t, created.CompletedToday)

	rec = ts.do(t, http.MethodPut, "/tasks/"+created.ID+"/today", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[taskView](t, rec).CompletedToday)

	ts.now = testutil.Fixed.AddDate(0, 0, 1)
	rec = ts.do(t, http.MethodGet, "/tasks?type=nonNegotiable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]taskView](t, rec)
	require.Len(t, list, 1)
	assert.Len(t, list[0].DailyTracking, 2)
	assert.False(t, list[0].CompletedToday)

	rec = ts.do(t, http.MethodGet, "/performance", nil)
	assert.Equal(t, 10, decode[ledgerView](t, rec).Performance)
}

func TestTasksAPI_DeadlineTask(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Ship", "type": "deadline"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decode[errorResponse](t, rec).Kind)

	rec = ts.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Ship", "type": "deadline", "deadline": "2025-06-20"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[taskView](t, rec)

	rec = ts.do(t, http.MethodPut, "/tasks/"+task.ID+"/status", map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decode[taskView](t, rec).Status)

	rec = ts.do(t, http.MethodGet, "/tasks", nil)
	assert.Empty(t, decode[[]taskView](t, rec))
	rec = ts.do(t, http.MethodGet, "/tasks?all=true", nil)
	assert.Len(t, decode[[]taskView](t, rec), 1)

	rec = ts.do(t, http.MethodDelete, "/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, "/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorResponse](t, rec).Kind)
}

func TestLearningsAPI_ChapterProgress(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/learnings", map[string]any{
		"title":        "SICP",
		"chaptersName": []string{"Procedures", "Data", "State"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	l := decode[learningView](t, rec)

	rec = ts.do(t, http.MethodPut, "/learnings/"+l.ID+"/chapters/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	l = decode[learningView](t, rec)
	assert.Equal(t, []int{1, 0, 0}, l.Progress)
	assert.Equal(t, "Data", l.CurrentChapter)

	rec = ts.do(t, http.MethodPost, "/learnings/"+l.ID+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[learningView](t, rec).CompletedChapters)

	rec = ts.do(t, http.MethodPut, "/learnings/"+l.ID+"/chapters/7", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(t, http.MethodPut, "/learnings/"+l.ID+"/chapters/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/learnings/"+l.ID+"/chapters/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "In Progress", decode[learningView](t, rec).Status)

	rec = ts.do(t, http.MethodGet, "/performance", nil)
	assert.Equal(t, 10, decode[ledgerView](t, rec).Performance)
}

func TestProjectsAPI_ModuleTaskToggle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/projects", map[string]any{
		"title":     "Kaizen",
		"startDate": "2025-06-01",
		"deadline":  "2025-07-01",
		"modules": []map[string]any{
			{"name": "API", "tasks": []map[string]any{
				{"title": "routes", "priority": "High"},
				{"title": "tests", "status": "Done"},
			}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[projectView](t, rec)
	assert.Equal(t, 50, p.Progress)
	assert.Equal(t, "Completed", p.Modules[0].Tasks[1].Status)
	assert.Equal(t, 16, p.DaysRemaining)

	rec = ts.do(t, http.MethodPut, "/projects/"+p.ID+"/modules/0/tasks/0", map[string]any{"done": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decode[projectView](t, rec)
	assert.Equal(t, 100, p.Progress)
	assert.Equal(t, "Completed", p.Status)

	rec = ts.do(t, http.MethodPut, "/projects/"+p.ID+"/modules/3/tasks/0", map[string]any{"done": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/projects", map[string]any{"title": "Bad", "startDate": "soon", "deadline": "2025-07-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/performance", nil)
	assert.Equal(t, 20, decode[ledgerView](t, rec).Performance, "finishing the module outranks the high priority")
}

func TestPerformanceAPI(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/performance", map[string]any{"category": "dailyInput", "action": "wastedTime", "minutes": "1:05"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, recordResponse{Score: -6, Performance: -6}, decode[recordResponse](t, rec))

	rec = ts.do(t, http.MethodPost, "/performance", map[string]any{"category": "nope", "action": "nope"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, recordResponse{Score: 0, Performance: -6}, decode[recordResponse](t, rec))

	rec = ts.do(t, http.MethodPost, "/performance", `{"category": "task", "action": "completed", "extra": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/performance/history?days=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]dayScoreView](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, dayScoreView{Date: "2025-06-15", Good: 0, Bad: -6, Net: -6}, history[0])

	rec = ts.do(t, http.MethodGet, "/performance/history?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailyInputsAPI(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/basic-inputs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/basic-inputs", map[string]any{
		"wakeUpTime":         "06:45",
		"meditationDuration": 10,
		"timeWastedRandomly": "0:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	in := decode[dailyInputView](t, rec)
	assert.Equal(t, 30, *in.TimeWastedRandomly)

	rec = ts.do(t, http.MethodPost, "/basic-inputs", map[string]any{"wakeUpTime": "06:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "already submitted inputs for today")

	rec = ts.do(t, http.MethodGet, "/basic-inputs?date=2025-06-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "06:45", decode[dailyInputView](t, rec).WakeUpTime)

	rec = ts.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[dashboardView](t, rec)
	assert.Equal(t, 5, dash.Performance)
	require.NotNil(t, dash.Today)
	assert.Equal(t, 8, dash.Today.Good)
	assert.Equal(t, []badEntryView{{Name: "Wasted Time", Score: -3}}, dash.Today.Bad)
}

func TestMetricsHealthAndCORS(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/performance", map[string]any{"category": "task", "action": "completed"})

	rec := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `kaizen_score_events_total{action="completed",category="task"} 1`)
	assert.Contains(t, rec.Body.String(), "kaizen_performance 10")

	rec = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	out := httptest.NewRecorder()
	ts.router.ServeHTTP(out, req)
	assert.Equal(t, "http://localhost:3000", out.Header().Get("Access-Control-Allow-Origin"))
}

func TestMinutesDecoding(t *testing.T) {
	tests := []struct {
		in   string
		want *int
		err  bool
	}{
		{`45`, testutil.IntPtr(45), false},
		{`"1:30"`, testutil.IntPtr(90), false},
		{`"2"`, testutil.IntPtr(120), false},
		{`""`, nil, false},
		{`null`, nil, false},
		{`"a:b"`, nil, true},
	}
	for _, tt := range tests {
		var m minutes
		err := json.Unmarshal([]byte(tt.in), &m)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, m.v, tt.in)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}

	assert.Error(t, Serve(context.Background(), "not-an-address", http.NotFoundHandler(), slog.Default()))
}
