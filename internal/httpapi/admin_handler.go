package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JoLazarte/marketplace-client/internal/admin"
	"github.com/JoLazarte/marketplace-client/internal/auth"
)

// AdminHandler exposes product management. Every route is gated on the
// session role; non-admin callers get 403 before anything else runs.
type AdminHandler struct {
	admin *admin.Service
	auth  *auth.Service
}

func NewAdminHandler(adminSvc *admin.Service, authSvc *auth.Service) *AdminHandler {
	return &AdminHandler{admin: adminSvc, auth: authSvc}
}

type ToggleStatusRequestDTO struct {
	Active bool `json:"active"`
}

// RequireAdmin rejects requests from sessions that cannot edit products.
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.CanEditProducts() {
			respondError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var form admin.BookForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.admin.CreateBook(r.Context(), form, h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

func (h *AdminHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var form admin.BookForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.admin.UpdateBook(r.Context(), form, h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminHandler) ToggleBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	var req ToggleStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.admin.SetBookActive(r.Context(), id, req.Active, h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

func (h *AdminHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var form admin.AlbumForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.admin.CreateAlbum(r.Context(), form, h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

func (h *AdminHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var form admin.AlbumForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.admin.UpdateAlbum(r.Context(), form, h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminHandler) ToggleAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	var req ToggleStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.admin.SetAlbumActive(r.Context(), id, req.Active, h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context(), h.auth.Token())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
