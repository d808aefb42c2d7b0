package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/JoLazarte/marketplace-client/internal/domain"
)

// Source fetches one category's collection from the backend.
type Source interface {
	List(ctx context.Context, activeOnly bool, token string) ([]domain.Product, error)
	Get(ctx context.Context, id int64, activeOnly bool, token string) (*domain.Product, error)
}

type fetchParams struct {
	Admin bool
}

// Cache holds one category's fetched collection plus the derived filtered
// view and genre facets. Fetches for the same admin context are collapsed
// through singleflight so two rapid callers issue one network request.
type Cache struct {
	category string
	source   Source
	sfg      singleflight.Group

	mu        sync.Mutex
	data      []domain.Product
	filtered  []domain.Product
	genres    []string
	filters   Filters
	loading   bool
	lastErr   string
	lastFetch *fetchParams
	subs      []func()
}

func NewCache(category string, source Source) *Cache {
	return &Cache{
		category: category,
		source:   source,
		genres:   []string{GenreAll},
		filters:  defaultFilters(),
	}
}

// Fetch loads the collection unless it is already loaded for the same admin
// context. Admin context fetches include inactive products.
func (c *Cache) Fetch(ctx context.Context, admin bool, token string) error {
	c.mu.Lock()
	if len(c.data) > 0 && c.lastFetch != nil && c.lastFetch.Admin == admin {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.fetch(ctx, admin, token)
}

// ForceFetch bypasses the context guard after a known external mutation.
func (c *Cache) ForceFetch(ctx context.Context, admin bool, token string) error {
	return c.fetch(ctx, admin, token)
}

func (c *Cache) fetch(ctx context.Context, admin bool, token string) error {
	key := fmt.Sprintf("%s:%t", c.category, admin)
	_, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		c.loading = true
		c.lastErr = ""
		c.mu.Unlock()

		products, err := c.source.List(ctx, !admin, token)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.loading = false

		if err != nil {
			c.data = nil
			c.filtered = nil
			c.lastErr = err.Error()
			return nil, err
		}

		c.data = products
		c.filtered = applyFilters(products, c.filters)
		c.genres = deriveGenres(products)
		c.lastFetch = &fetchParams{Admin: admin}
		return nil, nil
	})
	return err
}

// GetProduct fetches a single product, uncached (detail views).
func (c *Cache) GetProduct(ctx context.Context, id int64, admin bool, token string) (*domain.Product, error) {
	return c.source.Get(ctx, id, !admin, token)
}

// SetGenre narrows the filtered view to one genre facet.
func (c *Cache) SetGenre(genre string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Genre = genre
	c.filtered = applyFilters(c.data, c.filters)
}

// SetSearch applies a case-insensitive substring match on title and author.
func (c *Cache) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Search = search
	c.filtered = applyFilters(c.data, c.filters)
}

func (c *Cache) SetBestseller(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Bestseller = on
	c.filtered = applyFilters(c.data, c.filters)
}

func (c *Cache) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = defaultFilters()
	c.filtered = append([]domain.Product(nil), c.data...)
}

// Invalidate clears the cached collection and fetch context, forcing the
// next Fetch to hit the backend, and notifies subscribers.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.filtered = nil
	c.lastFetch = nil
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// OnInvalidate registers a callback fired after every invalidation, so a
// view on an unrelated page can pick up admin edits without a full reload.
func (c *Cache) OnInvalidate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Products returns the filtered view.
func (c *Cache) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.filtered...)
}

// All returns the unfiltered collection.
func (c *Cache) All() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.data...)
}

func (c *Cache) Genres() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.genres...)
}

func (c *Cache) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last fetch error message, empty after a success.
func (c *Cache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
