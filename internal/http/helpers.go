package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"daftar/internal/assistant"
	"daftar/internal/core"
	"daftar/internal/log"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrIndexOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrStatusTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, assistant.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
	case errors.Is(err, assistant.ErrBusy):
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusTooManyRequests, "assistant is busy, try again shortly")
	case errors.Is(err, assistant.ErrCallFailed):
		writeError(w, http.StatusBadGateway, "assistant call failed")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	// Reject trailing garbage.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("decode request body: unexpected trailing data")
	}
	return nil
}

// parseAmount converts a decimal string ("12.50") to a validated Money.
func parseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	m := core.Money{Cents: cents}
	if err := m.Validate(); err != nil {
		return core.Money{}, err
	}
	return m, nil
}
