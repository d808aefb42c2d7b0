package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/JoLazarte/marketplace-client/internal/auth"
	"github.com/JoLazarte/marketplace-client/internal/purchase"
)

type CheckoutHandler struct {
	lifecycle *purchase.Lifecycle
	auth      *auth.Service
}

func NewCheckoutHandler(lifecycle *purchase.Lifecycle, authSvc *auth.Service) *CheckoutHandler {
	return &CheckoutHandler{lifecycle: lifecycle, auth: authSvc}
}

type CheckoutStatusDTO struct {
	Status        string `json:"status"`
	DraftID       *int64 `json:"draftId,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

type SelectPaymentRequestDTO struct {
	Method string `json:"method"`
}

type CreateDraftResponseDTO struct {
	DraftID int64  `json:"draftId"`
	Status  string `json:"status"`
}

func (h *CheckoutHandler) status() CheckoutStatusDTO {
	dto := CheckoutStatusDTO{
		Status:        h.lifecycle.Status().String(),
		PaymentMethod: string(h.lifecycle.PaymentMethod()),
	}
	if id, ok := h.lifecycle.DraftID(); ok {
		dto.DraftID = &id
	}
	return dto
}

func (h *CheckoutHandler) Status(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.status())
}

func (h *CheckoutHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := h.lifecycle.CreateDraft(r.Context(), h.auth.Token())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateDraftResponseDTO{
		DraftID: draftID,
		Status:  h.lifecycle.Status().String(),
	})
}

func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req SelectPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.lifecycle.SelectPaymentMethod(r.Context(), purchase.PaymentMethod(req.Method)); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.status())
}

func (h *CheckoutHandler) SetCard(w http.ResponseWriter, r *http.Request) {
	var card purchase.CardDetails
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.lifecycle.SetCardDetails(card)
	respondJSON(w, http.StatusOK, h.status())
}

func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.lifecycle.Confirm(r.Context(), h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.status())
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.lifecycle.Cancel(r.Context(), h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.status())
}
