// Package api exposes the tracker services as a JSON HTTP API.
package api

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/kaizen/internal/service"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	Tasks       service.TaskService
	Learnings   service.LearningService
	Projects    service.ProjectService
	Performance service.PerformanceService
	Inputs      service.DailyInputService
	Dashboard   service.DashboardService
	// Now is the clock calendar days are read from.
	Now service.Clock

	logger *slog.Logger
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.Default()
	}
	return h.logger
}
