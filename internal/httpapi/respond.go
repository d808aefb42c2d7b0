package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/JoLazarte/marketplace-client/internal/admin"
	"github.com/JoLazarte/marketplace-client/internal/api"
	"github.com/JoLazarte/marketplace-client/internal/auth"
	"github.com/JoLazarte/marketplace-client/internal/cart"
	"github.com/JoLazarte/marketplace-client/internal/purchase"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError translates sentinel errors from the domain packages
// into HTTP responses.
func handleDomainError(w http.ResponseWriter, err error) {
	var verrs admin.ValidationErrors
	if errors.As(err, &verrs) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   verrs.Error(),
			Code:    "validation_failed",
			Details: verrs,
		})
		return
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		respondError(w, statusErr.Code, "backend_error", statusErr.Message)
		return
	}

	switch {
	case errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, purchase.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, auth.ErrLoginFailed):
		respondError(w, http.StatusUnauthorized, "login_failed", err.Error())
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, cart.ErrStockExceeded):
		respondError(w, http.StatusConflict, "stock_exceeded", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, purchase.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, purchase.ErrDraftInProgress):
		respondError(w, http.StatusConflict, "draft_in_progress", err.Error())
	case errors.Is(err, purchase.ErrNoDraft):
		respondError(w, http.StatusConflict, "no_draft", err.Error())
	case errors.Is(err, purchase.ErrNoPaymentMethod),
		errors.Is(err, purchase.ErrInvalidPaymentMethod),
		errors.Is(err, purchase.ErrCardIncomplete),
		errors.Is(err, purchase.ErrPaymentNotImplemented):
		respondError(w, http.StatusBadRequest, "payment_invalid", err.Error())
	case errors.Is(err, purchase.ErrNotConfirmed):
		respondError(w, http.StatusBadGateway, "not_confirmed", err.Error())
	case errors.Is(err, api.ErrBackendUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
