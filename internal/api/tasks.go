package api

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/go-chi/chi/v5"
)

type createTaskRequest struct {
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Deadline *string `json:"deadline"`
}

type setTaskStatusRequest struct {
	Completed bool `json:"completed"`
}

// HandleListTasks handles GET /tasks?type=&all=
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	q := service.TaskQuery{Type: domain.TaskType(r.URL.Query().Get("type"))}
	if q.Type != "" && !domain.ValidTaskTypes[q.Type] {
		h.writeError(w, r, domain.Invalid("type", "unknown task type %q", q.Type))
		return
	}
	if raw := r.URL.Query().Get("all"); raw != "" {
		all, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, domain.Invalid("all", "%q is not a boolean", raw))
			return
		}
		q.IncludeCompleted = all
	}
	tasks, err := h.Tasks.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskViews(tasks, h.now()))
}

// HandleCreateTask handles POST /tasks
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	deadline, err := parseOptionalDate("deadline", req.Deadline)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tasks.Create(r.Context(), req.Title, domain.TaskType(req.Type), deadline)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskView(t, h.now()))
}

// HandleGetTask handles GET /tasks/{id}
func (h *Handler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(t, h.now()))
}

// HandleDeleteTask handles DELETE /tasks/{id}
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCompleteToday handles PUT /tasks/{id}/today
func (h *Handler) HandleCompleteToday(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	t, err := h.Tasks.MarkCompletedToday(r.Context(), chi.URLParam(r, "id"), now)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(t, now))
}

// HandleSetTaskStatus handles PUT /tasks/{id}/status
func (h *Handler) HandleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req setTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.Tasks.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Completed)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(t, h.now()))
}

// HandleProcrastinate handles POST /tasks/{id}/procrastinate
func (h *Handler) HandleProcrastinate(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.MarkProcrastinated(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(t, h.now()))
}
