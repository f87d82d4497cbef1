package api

import (
	"net/http"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/go-chi/chi/v5"
)

type projectRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StartDate   string       `json:"startDate"`
	Deadline    string       `json:"deadline"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Modules     []moduleJSON `json:"modules"`
	Notes       string       `json:"notes"`
}

func (req projectRequest) input() (service.ProjectInput, error) {
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	deadline, err := parseDate("deadline", req.Deadline)
	if err != nil {
		return service.ProjectInput{}, err
	}
	modules, err := toModules(req.Modules)
	if err != nil {
		return service.ProjectInput{}, err
	}
	return service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		Deadline:    deadline,
		Status:      domain.ProjectStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
		Modules:     modules,
		Notes:       req.Notes,
	}, nil
}

type setModuleTaskRequest struct {
	Done bool `json:"done"`
}

// HandleListProjects handles GET /projects
func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Projects.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectViews(ps, h.now()))
}

// HandleCreateProject handles POST /projects
func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Projects.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectView(p, h.now()))
}

// HandleGetProject handles GET /projects/{id}
func (h *Handler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, h.now()))
}

// HandleUpdateProject handles PUT /projects/{id}
func (h *Handler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Projects.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, h.now()))
}

// HandleDeleteProject handles DELETE /projects/{id}
func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReplaceModules handles PUT /projects/{id}/modules
func (h *Handler) HandleReplaceModules(w http.ResponseWriter, r *http.Request) {
	var req []moduleJSON
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	modules, err := toModules(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Projects.ReplaceModules(r.Context(), chi.URLParam(r, "id"), modules)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, h.now()))
}

// HandleSetModuleTask handles PUT /projects/{id}/modules/{module}/tasks/{task}
func (h *Handler) HandleSetModuleTask(w http.ResponseWriter, r *http.Request) {
	mi, err := pathInt(r, "module")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ti, err := pathInt(r, "task")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req setModuleTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Projects.SetTaskStatus(r.Context(), chi.URLParam(r, "id"), mi, ti, req.Done)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, h.now()))
}

// HandleReportDelay handles POST /projects/{id}/delay
func (h *Handler) HandleReportDelay(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.ReportDelay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p, h.now()))
}
