package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/JoLazarte/marketplace-client/internal/auth"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponseDTO struct {
	Authenticated bool       `json:"authenticated"`
	User          *auth.User `json:"user,omitempty"`
	IsAdmin       bool       `json:"isAdmin"`
}

func (h *AuthHandler) session() SessionResponseDTO {
	return SessionResponseDTO{
		Authenticated: h.auth.IsAuthenticated(),
		User:          h.auth.User(),
		IsAdmin:       h.auth.IsAdmin(),
	}
}

func (h *AuthHandler) Session(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.session())
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "username and password are required")
		return
	}

	if _, err := h.auth.Login(r.Context(), req.Username, req.Password); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.session())
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if input.Username == "" || input.Password == "" || input.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username, password and email are required")
		return
	}

	if err := h.auth.Register(r.Context(), input); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"registered": true})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update auth.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.auth.UpdateProfile(r.Context(), update); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.session())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	respondJSON(w, http.StatusOK, h.session())
}
