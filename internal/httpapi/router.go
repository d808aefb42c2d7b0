package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
}

// NewRouter wires the local storefront API. Category routes accept
// "books" or "albums" as the {category} segment.
func NewRouter(h Handlers, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog/{category}", func(r chi.Router) {
			r.Get("/", h.Catalog.List)
			r.Post("/refresh", h.Catalog.Refresh)
			r.Put("/filters", h.Catalog.SetFilters)
			r.Get("/{id}", h.Catalog.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			r.Delete("/", h.Cart.ClearCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.Checkout.Status)
			r.Post("/draft", h.Checkout.CreateDraft)
			r.Put("/payment", h.Checkout.SelectPayment)
			r.Put("/card", h.Checkout.SetCard)
			r.Post("/confirm", h.Checkout.Confirm)
			r.Post("/cancel", h.Checkout.Cancel)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/session", h.Auth.Session)
			r.Post("/login", h.Auth.Login)
			r.Post("/register", h.Auth.Register)
			r.Put("/profile", h.Auth.UpdateProfile)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.Admin.RequireAdmin)
			r.Get("/stats", h.Admin.Stats)
			r.Route("/books", func(r chi.Router) {
				r.Post("/", h.Admin.CreateBook)
				r.Put("/", h.Admin.UpdateBook)
				r.Put("/{id}/status", h.Admin.ToggleBook)
			})
			r.Route("/albums", func(r chi.Router) {
				r.Post("/", h.Admin.CreateAlbum)
				r.Put("/", h.Admin.UpdateAlbum)
				r.Put("/{id}/status", h.Admin.ToggleAlbum)
			})
		})
	})

	return r
}
