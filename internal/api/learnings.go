package api

import (
	"net/http"

	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/go-chi/chi/v5"
)

type createLearningRequest struct {
	Title        string   `json:"title"`
	ChapterNames []string `json:"chaptersName"`
	Notes        string   `json:"notes"`
}

type updateLearningRequest struct {
	Title *string `json:"title"`
	Notes *string `json:"notes"`
}

// HandleListLearnings handles GET /learnings
func (h *Handler) HandleListLearnings(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Learnings.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningViews(ls))
}

// HandleCreateLearning handles POST /learnings
func (h *Handler) HandleCreateLearning(w http.ResponseWriter, r *http.Request) {
	var req createLearningRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.Learnings.Create(r.Context(), req.Title, req.ChapterNames, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLearningView(l))
}

// HandleGetLearning handles GET /learnings/{id}
func (h *Handler) HandleGetLearning(w http.ResponseWriter, r *http.Request) {
	l, err := h.Learnings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningView(l))
}

// HandleUpdateLearning handles PATCH /learnings/{id}
func (h *Handler) HandleUpdateLearning(w http.ResponseWriter, r *http.Request) {
	var req updateLearningRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.Learnings.Update(r.Context(), chi.URLParam(r, "id"), service.LearningPatch{Title: req.Title, Notes: req.Notes})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningView(l))
}

// HandleDeleteLearning handles DELETE /learnings/{id}
func (h *Handler) HandleDeleteLearning(w http.ResponseWriter, r *http.Request) {
	if err := h.Learnings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCompleteChapter handles PUT /learnings/{id}/chapters/{index}
func (h *Handler) HandleCompleteChapter(w http.ResponseWriter, r *http.Request) {
	idx, err := pathInt(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.Learnings.CompleteChapter(r.Context(), chi.URLParam(r, "id"), idx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningView(l))
}

// HandleUncompleteChapter handles DELETE /learnings/{id}/chapters/{index}
func (h *Handler) HandleUncompleteChapter(w http.ResponseWriter, r *http.Request) {
	idx, err := pathInt(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.Learnings.UncompleteChapter(r.Context(), chi.URLParam(r, "id"), idx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningView(l))
}

// HandleAdvanceNext handles POST /learnings/{id}/next
func (h *Handler) HandleAdvanceNext(w http.ResponseWriter, r *http.Request) {
	l, err := h.Learnings.AdvanceNext(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningView(l))
}

// HandleSkipSession handles POST /learnings/{id}/skip
func (h *Handler) HandleSkipSession(w http.ResponseWriter, r *http.Request) {
	l, err := h.Learnings.SkipSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningView(l))
}
