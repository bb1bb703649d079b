package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgettracker/internal/budget"
	"budgettracker/internal/core"
	"budgettracker/internal/log"
	"budgettracker/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrCategoryExists):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnknownSuggestion),
		errors.Is(err, budget.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidBudget),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidRecurrenceDay),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrDescriptionTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged and their
// message is not echoed to the client.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op, nil)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
