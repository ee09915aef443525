package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"birthdaybook/internal/ctxkeys"
	"birthdaybook/internal/service"
)

type SharingHandler struct {
	sharingService *service.SharingService
}

func NewSharingHandler(sharingService *service.SharingService) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

type createLinkResponse struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	ShareURL  string     `json:"shareUrl"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (h *SharingHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())

	link, err := h.sharingService.CreateLink(callerID, requestOrigin(r))
	if err != nil {
		slog.Error("failed to create sharing link", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, createLinkResponse{
		ID:        link.ID,
		Token:     link.Token,
		ShareURL:  link.ShareURL,
		ExpiresAt: link.ExpiresAt,
		CreatedAt: link.CreatedAt,
	})
}

type linkResponse struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	ShareURL  string     `json:"shareUrl"`
}

func (h *SharingHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())

	links, err := h.sharingService.ListLinks(callerID, requestOrigin(r))
	if err != nil {
		slog.Error("failed to list sharing links", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]linkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, linkResponse{
			ID:        link.ID,
			Token:     link.Token,
			ExpiresAt: link.ExpiresAt,
			IsActive:  link.IsActive,
			CreatedAt: link.CreatedAt,
			ShareURL:  link.ShareURL,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

type resolveLinkResponse struct {
	Token       string     `json:"token"`
	AccountName string     `json:"accountName"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// Resolve is public: it tells the holder of a share token whose birthday
// book the link writes into, without authenticating them.
func (h *SharingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	link, accountName, err := h.sharingService.ResolveLink(token)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "Sharing link not found or expired")
			return
		}
		slog.Error("failed to resolve sharing link", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, resolveLinkResponse{
		Token:       link.Token,
		AccountName: accountName,
		ExpiresAt:   link.ExpiresAt,
	})
}

// AddBirthday is public: the share token in the path is the only credential.
func (h *SharingHandler) AddBirthday(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req createBirthdayRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Name == "" || req.Day == 0 || req.Month == 0 {
		respondError(w, http.StatusBadRequest, "Missing name, day, or month")
		return
	}

	birthday, err := h.sharingService.AddBirthday(token, req.Name, req.Day, req.Month, req.Year)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "Sharing link not found or expired")
			return
		}
		slog.Error("failed to add birthday via sharing link", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, birthdayJSON(birthday))
}

func (h *SharingHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	callerID := ctxkeys.AccountID(r.Context())
	id := r.PathValue("id")

	err := h.sharingService.RevokeLink(callerID, id)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "Sharing link not found")
			return
		}
		slog.Error("failed to revoke sharing link", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
