package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/usecase"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the public message; the underlying error is attached as
// details only when includeDetails is set (development mode).
func respondError(w http.ResponseWriter, status int, msg string, err error, includeDetails bool) {
	body := errorBody{Error: msg}
	if includeDetails && err != nil {
		body.Details = err.Error()
	}
	respondJSON(w, status, body)
}

// statusFor maps service errors to HTTP statuses. Upstream platform failures
// become 502 so callers can tell them apart from dashboard faults.
func statusFor(err error) int {
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
