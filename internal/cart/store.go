package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/JoLazarte/marketplace-client/internal/pricing"
)

var (
	// ErrStockExceeded means the requested quantity went past the last known
	// stock ceiling. Callers surface it as a non-fatal warning.
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")

	// ErrInvalidQuantity rejects quantities below 1; removal is a separate
	// operation, never a decrement to zero.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	ErrLineNotFound = errors.New("product is not in the cart")
)

// Saver persists the cart between sessions. The store keeps working in
// memory when persistence fails; a save error is logged, not returned.
type Saver interface {
	SaveCart(ctx context.Context, lines []Line) error
}

// Store is the single source of truth for cart contents. All mutations are
// atomic under one mutex, and every successful mutation is written through
// to the session saver so the cart survives a restart.
type Store struct {
	mu    sync.Mutex
	lines []Line
	saver Saver
}

func NewStore(saver Saver, initial []Line) *Store {
	return &Store{
		saver: saver,
		lines: append([]Line(nil), initial...),
	}
}

// Add inserts a new line or merges quantities with an existing one. The
// merged quantity is capped at the line's stock ceiling; when the cap bites,
// the cart keeps the capped quantity and ErrStockExceeded is returned so the
// caller can warn the user.
func (s *Store) Add(ctx context.Context, item Line) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var capped bool
	if existing := s.find(item.ID); existing != nil {
		wanted := existing.Quantity + item.Quantity
		if wanted > existing.Stock {
			wanted = existing.Stock
			capped = true
		}
		existing.Quantity = wanted
	} else {
		if item.Stock < 1 {
			return ErrStockExceeded
		}
		if item.Quantity > item.Stock {
			item.Quantity = item.Stock
			capped = true
		}
		s.lines = append(s.lines, item)
	}

	s.persist(ctx)
	if capped {
		return ErrStockExceeded
	}
	return nil
}

// Remove deletes a line; removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.lines {
		if line.ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets an absolute quantity for a line. An over-stock or
// below-one quantity is rejected outright and the line is left untouched.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.find(id)
	if line == nil {
		return ErrLineNotFound
	}
	if quantity > line.Stock {
		return ErrStockExceeded
	}

	line.Quantity = quantity
	s.persist(ctx)
	return nil
}

// Clear empties the cart. Runs after a confirmed or cancelled purchase and
// on explicit user request.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist(ctx)
}

// Lines returns a copy of the cart contents in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Total is the discount-aware sum over all lines.
func (s *Store) Total() float64 {
	return pricing.CartTotal(s.pricingLines())
}

// Savings is the display-only amount saved by active discounts.
func (s *Store) Savings() float64 {
	return pricing.CartSavings(s.pricingLines())
}

// ItemCount sums quantities, not distinct lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *Store) find(id int64) *Line {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return &s.lines[i]
		}
	}
	return nil
}

func (s *Store) pricingLines() []pricing.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]pricing.Line, 0, len(s.lines))
	for _, line := range s.lines {
		lines = append(lines, line.pricingLine())
	}
	return lines
}

// persist is called with the mutex held.
func (s *Store) persist(ctx context.Context) {
	if s.saver == nil {
		return
	}
	if err := s.saver.SaveCart(ctx, append([]Line(nil), s.lines...)); err != nil {
		log.Printf("cart save error: %v", err)
	}
}
