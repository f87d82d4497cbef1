package api

import "net/http"

// HandleDashboard handles GET /dashboard
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Dashboard.Snapshot(r.Context(), h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardView(snap))
}
