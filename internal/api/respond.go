package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Internal errors are logged
// and reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.Kind(err)
	status := http.StatusInternalServerError
	msg := "internal error"
	switch kind {
	case "not_found":
		status, msg = http.StatusNotFound, err.Error()
	case "validation":
		status, msg = http.StatusBadRequest, validationMessage(err)
	case "conflict":
		status, msg = http.StatusConflict, err.Error()
	default:
		h.log().ErrorContext(r.Context(), "request_failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("body", "request body is empty")
		}
		return domain.Invalid("body", "%v", err)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(name, "%q is not an integer", raw)
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(name, "%q is not an integer", raw)
	}
	return v, nil
}

// parseDate accepts a calendar day ("2006-01-02") or an RFC 3339 timestamp.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(domain.DayLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Invalid(field, "%q is not a date", raw)
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// minutes decodes either a JSON number of minutes or an "H:MM" duration string.
type minutes struct {
	v *int
}

func (m *minutes) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		h, mm, found := strings.Cut(str, ":")
		hv, err := strconv.Atoi(h)
		if err != nil {
			return fmt.Errorf("duration %q is not H:MM", str)
		}
		mv := 0
		if found {
			if mv, err = strconv.Atoi(mm); err != nil {
				return fmt.Errorf("duration %q is not H:MM", str)
			}
		}
		total := hv*60 + mv
		m.v = &total
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	m.v = &n
	return nil
}
