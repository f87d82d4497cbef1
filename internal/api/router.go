package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Options configures the cross-cutting parts of the router.
type Options struct {
	AllowedOrigins []string
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Health backs GET /health. Nil reports healthy unconditionally.
	Health func(context.Context) error
	Logger *slog.Logger
}

// NewRouter creates the HTTP router for h.
func NewRouter(h *Handler, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h.logger = logger

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(AccessLog(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}).Handler)
	r.Use(chimw.Recoverer)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.HandleListTasks)
		r.Post("/", h.HandleCreateTask)
		r.Get("/{id}", h.HandleGetTask)
		r.Delete("/{id}", h.HandleDeleteTask)
		r.Put("/{id}/today", h.HandleCompleteToday)
		r.Put("/{id}/status", h.HandleSetTaskStatus)
		r.Post("/{id}/procrastinate", h.HandleProcrastinate)
	})

	r.Route("/learnings", func(r chi.Router) {
		r.Get("/", h.HandleListLearnings)
		r.Post("/", h.HandleCreateLearning)
		r.Get("/{id}", h.HandleGetLearning)
		r.Patch("/{id}", h.HandleUpdateLearning)
		r.Delete("/{id}", h.HandleDeleteLearning)
		r.Put("/{id}/chapters/{index}", h.HandleCompleteChapter)
		r.Delete("/{id}/chapters/{index}", h.HandleUncompleteChapter)
		r.Post("/{id}/next", h.HandleAdvanceNext)
		r.Post("/{id}/skip", h.HandleSkipSession)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.HandleListProjects)
		r.Post("/", h.HandleCreateProject)
		r.Get("/{id}", h.HandleGetProject)
		r.Put("/{id}", h.HandleUpdateProject)
		r.Delete("/{id}", h.HandleDeleteProject)
		r.Put("/{id}/modules", h.HandleReplaceModules)
		r.Put("/{id}/modules/{module}/tasks/{task}", h.HandleSetModuleTask)
		r.Post("/{id}/delay", h.HandleReportDelay)
	})

	r.Get("/performance", h.HandleGetPerformance)
	r.Post("/performance", h.HandleRecordPerformance)
	r.Get("/performance/history", h.HandlePerformanceHistory)

	r.Get("/basic-inputs", h.HandleGetDailyInput)
	r.Post("/basic-inputs", h.HandleSubmitDailyInput)
	r.Get("/basic-inputs/recent", h.HandleRecentDailyInputs)

	r.Get("/dashboard", h.HandleDashboard)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "health_check_failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
