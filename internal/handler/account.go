package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"birthdaybook/internal/ctxkeys"
	"birthdaybook/internal/model"
	"birthdaybook/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func accountJSON(a *model.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// List returns only the authenticated caller's account, as a one-element
// sequence.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())

	account, err := h.accountService.Get(callerID, callerID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("failed to get account", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, []accountResponse{accountJSON(account)})
}

type createAccountRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Email == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing email or name")
		return
	}

	account, err := h.accountService.Create(req.Email, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create account", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, accountJSON(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	account, err := h.accountService.Get(callerID, id)
	if err != nil {
		h.respondAccountError(w, err, "failed to get account")
		return
	}

	respondJSON(w, http.StatusOK, accountJSON(account))
}

type updateAccountRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	var req updateAccountRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	account, err := h.accountService.Update(callerID, id, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrNothingToUpdate) {
			respondError(w, http.StatusBadRequest, "Nothing to update")
			return
		}
		if errors.Is(err, service.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already exists")
			return
		}
		h.respondAccountError(w, err, "failed to update account")
		return
	}

	respondJSON(w, http.StatusOK, accountJSON(account))
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	err := h.accountService.Delete(callerID, id)
	if err != nil {
		h.respondAccountError(w, err, "failed to delete account")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AccountHandler) respondAccountError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "Account not found")
	default:
		slog.Error(logMsg, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
