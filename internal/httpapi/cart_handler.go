package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JoLazarte/marketplace-client/internal/auth"
	"github.com/JoLazarte/marketplace-client/internal/cart"
	"github.com/JoLazarte/marketplace-client/internal/catalog"
	"github.com/JoLazarte/marketplace-client/internal/domain"
)

type CartHandler struct {
	store  *cart.Store
	books  *catalog.Cache
	albums *catalog.Cache
	auth   *auth.Service
}

func NewCartHandler(store *cart.Store, books, albums *catalog.Cache, authSvc *auth.Service) *CartHandler {
	return &CartHandler{store: store, books: books, albums: albums, auth: authSvc}
}

type AddItemRequestDTO struct {
	ProductID int64       `json:"productId"`
	Kind      domain.Kind `json:"kind"`
	Quantity  int         `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Lines     []cart.Line `json:"lines"`
	Total     float64     `json:"total"`
	Savings   float64     `json:"savings"`
	ItemCount int         `json:"itemCount"`
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int) {
	respondJSON(w, status, CartResponseDTO{
		Lines:     h.store.Lines(),
		Total:     h.store.Total(),
		Savings:   h.store.Savings(),
		ItemCount: h.store.ItemCount(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	source := h.books
	if req.Kind == domain.KindAlbum {
		source = h.albums
	}

	product, err := source.GetProduct(r.Context(), req.ProductID, false, h.auth.Token())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.store.Add(r.Context(), cart.NewLine(*product, req.Quantity)); err != nil {
		handleDomainError(w, err)
		return
	}

	h.respondCart(w, http.StatusCreated)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.store.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	h.store.Remove(r.Context(), productID)
	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())
	h.respondCart(w, http.StatusOK)
}
