package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/usecase"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	auth    usecase.AuthUseCase
	logger  *slog.Logger
	devMode bool
}

func NewAuthHandler(auth usecase.AuthUseCase, logger *slog.Logger, devMode bool) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger, devMode: devMode}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err, h.devMode)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required", nil, h.devMode)
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters", nil, h.devMode)
		return
	}

	token, user, err := h.auth.Signup(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("signup failed", "error", err)
			respondError(w, status, "Signup failed", err, h.devMode)
			return
		}
		respondError(w, status, err.Error(), nil, h.devMode)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err, h.devMode)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("login failed", "error", err)
			respondError(w, status, "Login failed", err, h.devMode)
			return
		}
		respondError(w, status, "Invalid email or password", nil, h.devMode)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
