package api

import (
	"net/http"

	"github.com/alexanderramin/kaizen/internal/scoring"
)

type recordRequest struct {
	Category string  `json:"category"`
	Action   string  `json:"action"`
	Minutes  minutes `json:"minutes"`
}

type recordResponse struct {
	Score       int `json:"score"`
	Performance int `json:"performance"`
}

// HandleGetPerformance handles GET /performance
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.Performance.Get(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerView(ledger))
}

// HandleRecordPerformance handles POST /performance. Unknown (category, action)
// pairs score 0 and succeed.
func (h *Handler) HandleRecordPerformance(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	var params scoring.Params
	if req.Minutes.v != nil {
		params.Minutes = *req.Minutes.v
	}
	res, err := h.Performance.RecordEvent(r.Context(), req.Category, req.Action, params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Score: res.Score, Performance: res.Performance})
}

// HandlePerformanceHistory handles GET /performance/history?days=
func (h *Handler) HandlePerformanceHistory(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 7)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	history, err := h.Performance.History(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayScoreViews(history))
}
