package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JoLazarte/marketplace-client/internal/auth"
	"github.com/JoLazarte/marketplace-client/internal/catalog"
	"github.com/JoLazarte/marketplace-client/internal/domain"
)

// CatalogHandler serves the book and album listings backed by the
// in-memory caches. The admin query flag switches the fetch to the
// unfiltered (inactive included) view when the session allows it.
type CatalogHandler struct {
	books  *catalog.Cache
	albums *catalog.Cache
	auth   *auth.Service
}

func NewCatalogHandler(books, albums *catalog.Cache, authSvc *auth.Service) *CatalogHandler {
	return &CatalogHandler{books: books, albums: albums, auth: authSvc}
}

type CatalogResponseDTO struct {
	Products []domain.Product `json:"products"`
	Genres   []string         `json:"genres"`
	Filters  catalog.Filters  `json:"filters"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

type FiltersRequestDTO struct {
	Genre      *string `json:"genre,omitempty"`
	Search     *string `json:"search,omitempty"`
	Bestseller *bool   `json:"bestseller,omitempty"`
	Reset      bool    `json:"reset,omitempty"`
}

func (h *CatalogHandler) cache(r *http.Request) *catalog.Cache {
	if chi.URLParam(r, "category") == "albums" {
		return h.albums
	}
	return h.books
}

func (h *CatalogHandler) adminView(r *http.Request) bool {
	return r.URL.Query().Get("admin") == "true" && h.auth.CanEditProducts()
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	c := h.cache(r)

	if err := c.Fetch(r.Context(), h.adminView(r), h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CatalogResponseDTO{
		Products: c.Products(),
		Genres:   c.Genres(),
		Filters:  c.Filters(),
		Loading:  c.Loading(),
		Error:    c.Err(),
	})
}

func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c := h.cache(r)

	if err := c.ForceFetch(r.Context(), h.adminView(r), h.auth.Token()); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CatalogResponseDTO{
		Products: c.Products(),
		Genres:   c.Genres(),
		Filters:  c.Filters(),
	})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	product, err := h.cache(r).GetProduct(r.Context(), id, h.adminView(r), h.auth.Token())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// SetFilters applies the requested filter changes and returns the
// re-filtered listing. Absent fields keep their current value.
func (h *CatalogHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req FiltersRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c := h.cache(r)
	if req.Reset {
		c.ResetFilters()
	}
	if req.Genre != nil {
		c.SetGenre(*req.Genre)
	}
	if req.Search != nil {
		c.SetSearch(*req.Search)
	}
	if req.Bestseller != nil {
		c.SetBestseller(*req.Bestseller)
	}

	respondJSON(w, http.StatusOK, CatalogResponseDTO{
		Products: c.Products(),
		Genres:   c.Genres(),
		Filters:  c.Filters(),
	})
}
