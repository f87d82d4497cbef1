package api

import (
	"net/http"

	"github.com/alexanderramin/kaizen/internal/service"
)

type dailyInputRequest struct {
	WakeUpTime         string  `json:"wakeUpTime"`
	MeditationDuration minutes `json:"meditationDuration"`
	TimeWastedRandomly minutes `json:"timeWastedRandomly"`
}

// HandleSubmitDailyInput handles POST /basic-inputs
func (h *Handler) HandleSubmitDailyInput(w http.ResponseWriter, r *http.Request) {
	var req dailyInputRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.Inputs.Submit(r.Context(), service.DailyInputSubmission{
		WakeUpTime:        req.WakeUpTime,
		MeditationMinutes: req.MeditationDuration.v,
		WastedMinutes:     req.TimeWastedRandomly.v,
	}, h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDailyInputView(in))
}

// HandleGetDailyInput handles GET /basic-inputs?date=
func (h *Handler) HandleGetDailyInput(w http.ResponseWriter, r *http.Request) {
	day := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		if day, err = parseDate("date", raw); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	in, err := h.Inputs.Get(r.Context(), day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyInputView(in))
}

// HandleRecentDailyInputs handles GET /basic-inputs/recent?limit=
func (h *Handler) HandleRecentDailyInputs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 7)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ins, err := h.Inputs.Recent(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]dailyInputView, 0, len(ins))
	for _, in := range ins {
		out = append(out, toDailyInputView(in))
	}
	writeJSON(w, http.StatusOK, out)
}
