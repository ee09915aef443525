package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"birthdaybook/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type requestCodeRequest struct {
	Email string `json:"email"`
}

// Request issues a one-time login code and delivers it to the account's
// email. An unknown email yields 404: the existence leak is a deliberate
// product trade-off, not a bug.
func (h *AuthHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing email")
		return
	}

	err = h.authService.RequestCode(req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("failed to request login code", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Verify exchanges a login code for a signed bearer token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Email == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Missing email or code")
		return
	}

	token, err := h.authService.VerifyCode(req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Account not found")
		case errors.Is(err, service.ErrInvalidCode):
			respondError(w, http.StatusUnauthorized, "Invalid or expired code")
		case errors.Is(err, service.ErrCodeExpired):
			respondError(w, http.StatusUnauthorized, "Code expired")
		default:
			slog.Error("failed to verify login code", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
