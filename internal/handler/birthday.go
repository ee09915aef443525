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

type BirthdayHandler struct {
	birthdayService *service.BirthdayService
}

func NewBirthdayHandler(birthdayService *service.BirthdayService) *BirthdayHandler {
	return &BirthdayHandler{birthdayService: birthdayService}
}

type birthdayResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	Name          string    `json:"name"`
	Day           int       `json:"day"`
	Month         int       `json:"month"`
	Year          *int      `json:"year"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	DaysUntilNext int       `json:"daysUntilNextBirthday,omitzero"`
}

func birthdayJSON(b *model.Birthday) birthdayResponse {
	return birthdayResponse{
		ID:            b.ID,
		AccountID:     b.AccountID,
		Name:          b.Name,
		Day:           b.Day,
		Month:         b.Month,
		Year:          b.Year,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		DaysUntilNext: b.DaysUntilNext,
	}
}

func birthdayListJSON(birthdays []model.Birthday) []birthdayResponse {
	out := make([]birthdayResponse, 0, len(birthdays))
	for i := range birthdays {
		out = append(out, birthdayJSON(&birthdays[i]))
	}
	return out
}

// List returns the caller's birthdays sorted by days until next occurrence.
func (h *BirthdayHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())

	birthdays, err := h.birthdayService.Upcoming(callerID)
	if err != nil {
		slog.Error("failed to list birthdays", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, birthdayListJSON(birthdays))
}

type createBirthdayRequest struct {
	Name  string `json:"name"`
	Day   int    `json:"day"`
	Month int    `json:"month"`
	Year  *int   `json:"year"`
}

func (h *BirthdayHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())

	var req createBirthdayRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Name == "" || req.Day == 0 || req.Month == 0 {
		respondError(w, http.StatusBadRequest, "Missing name, day, or month")
		return
	}

	birthday, err := h.birthdayService.Create(callerID, req.Name, req.Day, req.Month, req.Year)
	if err != nil {
		slog.Error("failed to create birthday", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, birthdayJSON(birthday))
}

func (h *BirthdayHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	birthday, err := h.birthdayService.Get(callerID, id)
	if err != nil {
		h.respondBirthdayError(w, err, "failed to get birthday")
		return
	}

	respondJSON(w, http.StatusOK, birthdayJSON(birthday))
}

type updateBirthdayRequest struct {
	Name  *string `json:"name"`
	Day   *int    `json:"day"`
	Month *int    `json:"month"`
	Year  *int    `json:"year"`
}

func (h *BirthdayHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	var req updateBirthdayRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	birthday, err := h.birthdayService.Update(callerID, id, req.Name, req.Day, req.Month, req.Year)
	if err != nil {
		if errors.Is(err, service.ErrNothingToUpdate) {
			respondError(w, http.StatusBadRequest, "Nothing to update")
			return
		}
		h.respondBirthdayError(w, err, "failed to update birthday")
		return
	}

	respondJSON(w, http.StatusOK, birthdayJSON(birthday))
}

func (h *BirthdayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	err := h.birthdayService.Delete(callerID, id)
	if err != nil {
		h.respondBirthdayError(w, err, "failed to delete birthday")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForAccount handles the legacy /accounts/{accountId}/birthdays path.
func (h *BirthdayHandler) ListForAccount(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	accountID := r.PathValue("accountId")

	birthdays, err := h.birthdayService.ListByAccount(callerID, accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "Account not found")
			return
		}
		h.respondBirthdayError(w, err, "failed to list birthdays")
		return
	}

	respondJSON(w, http.StatusOK, birthdayListJSON(birthdays))
}

// CreateForAccount handles the legacy POST /accounts/{accountId}/birthdays path.
func (h *BirthdayHandler) CreateForAccount(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	accountID := r.PathValue("accountId")

	if callerID != accountID {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req createBirthdayRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Name == "" || req.Day == 0 || req.Month == 0 {
		respondError(w, http.StatusBadRequest, "Missing name, day, or month")
		return
	}

	birthday, err := h.birthdayService.Create(accountID, req.Name, req.Day, req.Month, req.Year)
	if err != nil {
		slog.Error("failed to create birthday", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, birthdayJSON(birthday))
}

func (h *BirthdayHandler) respondBirthdayError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrBirthdayNotFound):
		respondError(w, http.StatusNotFound, "Birthday not found")
	default:
		slog.Error(logMsg, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
