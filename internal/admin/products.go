// Package admin covers the product-management surface: create/update forms
// with required-field validation, visibility toggles and the stats panel.
// Every successful mutation invalidates the affected category cache.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/JoLazarte/marketplace-client/internal/catalog"
)

// productsAPI is the slice of the backend client the admin surface needs.
type productsAPI interface {
	CreateBook(ctx context.Context, book any, token string) (json.RawMessage, error)
	UpdateBook(ctx context.Context, book any, token string) (json.RawMessage, error)
	ToggleBookStatus(ctx context.Context, id int64, active bool, token string) error
	CreateAlbum(ctx context.Context, album any, token string) (json.RawMessage, error)
	UpdateAlbum(ctx context.Context, album any, token string) (json.RawMessage, error)
	ToggleAlbumStatus(ctx context.Context, id int64, active bool, token string) error
	AdminStats(ctx context.Context, token string) (json.RawMessage, error)
}

type Service struct {
	api    productsAPI
	books  *catalog.Cache
	albums *catalog.Cache
}

func NewService(api productsAPI, books, albums *catalog.Cache) *Service {
	return &Service{api: api, books: books, albums: albums}
}

// ValidationErrors maps field names to messages. A non-empty map blocks
// submission; nothing reaches the network.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

var imageURLPattern = regexp.MustCompile(`^https?://.+\..+`)

// BookForm is the book create/update payload in wire shape.
type BookForm struct {
	ID                 int64    `json:"id,omitempty"`
	Title              string   `json:"title"`
	Author             string   `json:"author"`
	Editorial          string   `json:"editorial"`
	Description        string   `json:"description"`
	ISBN               string   `json:"isbn"`
	GenreBooks         []string `json:"genreBooks"`
	Price              float64  `json:"price"`
	Stock              int      `json:"stock"`
	URLImage           string   `json:"urlImage"`
	Active             *bool    `json:"active,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage"`
	DiscountActive     bool     `json:"discountActive"`
}

func (f *BookForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Editorial = strings.TrimSpace(f.Editorial)
	f.Description = strings.TrimSpace(f.Description)
	f.ISBN = strings.TrimSpace(f.ISBN)
	f.URLImage = strings.TrimSpace(f.URLImage)
}

func (f *BookForm) validate() ValidationErrors {
	f.trim()
	errs := ValidationErrors{}
	if f.Title == "" {
		errs["title"] = "title is required"
	}
	if f.Author == "" {
		errs["author"] = "author is required"
	}
	if f.Editorial == "" {
		errs["editorial"] = "editorial is required"
	}
	if f.ISBN == "" {
		errs["isbn"] = "isbn is required"
	}
	if len(f.GenreBooks) == 0 {
		errs["genreBooks"] = "select at least one genre"
	}
	validateCommon(errs, f.Price, f.Stock, f.DiscountPercentage, f.URLImage)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AlbumForm is the album create/update payload in wire shape.
type AlbumForm struct {
	ID                 int64    `json:"id,omitempty"`
	Title              string   `json:"title"`
	Author             string   `json:"author"`
	RecordLabel        string   `json:"recordLabel"`
	Year               int      `json:"year"`
	Description        string   `json:"description"`
	ISRC               string   `json:"isrc"`
	Genres             []string `json:"genres"`
	Price              float64  `json:"price"`
	Stock              int      `json:"stock"`
	URLImage           string   `json:"urlImage"`
	Active             *bool    `json:"active,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage"`
	DiscountActive     bool     `json:"discountActive"`
}

func (f *AlbumForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.RecordLabel = strings.TrimSpace(f.RecordLabel)
	f.Description = strings.TrimSpace(f.Description)
	f.ISRC = strings.TrimSpace(f.ISRC)
	f.URLImage = strings.TrimSpace(f.URLImage)
}

func (f *AlbumForm) validate() ValidationErrors {
	f.trim()
	errs := ValidationErrors{}
	if f.Title == "" {
		errs["title"] = "title is required"
	}
	if f.Author == "" {
		errs["author"] = "author is required"
	}
	if f.RecordLabel == "" {
		errs["recordLabel"] = "record label is required"
	}
	if f.ISRC == "" {
		errs["isrc"] = "isrc is required"
	}
	if f.Year <= 0 {
		errs["year"] = "year is required"
	}
	if len(f.Genres) == 0 {
		errs["genres"] = "select at least one genre"
	}
	validateCommon(errs, f.Price, f.Stock, f.DiscountPercentage, f.URLImage)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateCommon(errs ValidationErrors, price float64, stock int, discountPct float64, urlImage string) {
	if price <= 0 {
		errs["price"] = "price must be greater than zero"
	}
	if stock < 0 {
		errs["stock"] = "stock must not be negative"
	}
	if discountPct < 0 || discountPct > 100 {
		errs["discountPercentage"] = "discount must be between 0 and 100"
	}
	if !imageURLPattern.MatchString(urlImage) {
		errs["urlImage"] = "image url is invalid"
	}
}

func (s *Service) CreateBook(ctx context.Context, form BookForm, token string) error {
	if errs := form.validate(); errs != nil {
		return errs
	}
	if _, err := s.api.CreateBook(ctx, form, token); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	s.books.Invalidate()
	return nil
}

func (s *Service) UpdateBook(ctx context.Context, form BookForm, token string) error {
	if errs := form.validate(); errs != nil {
		return errs
	}
	if _, err := s.api.UpdateBook(ctx, form, token); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	s.books.Invalidate()
	return nil
}

func (s *Service) SetBookActive(ctx context.Context, id int64, active bool, token string) error {
	if err := s.api.ToggleBookStatus(ctx, id, active, token); err != nil {
		return fmt.Errorf("toggle book status: %w", err)
	}
	s.books.Invalidate()
	return nil
}

func (s *Service) CreateAlbum(ctx context.Context, form AlbumForm, token string) error {
	if errs := form.validate(); errs != nil {
		return errs
	}
	if _, err := s.api.CreateAlbum(ctx, form, token); err != nil {
		return fmt.Errorf("create album: %w", err)
	}
	s.albums.Invalidate()
	return nil
}

func (s *Service) UpdateAlbum(ctx context.Context, form AlbumForm, token string) error {
	if errs := form.validate(); errs != nil {
		return errs
	}
	if _, err := s.api.UpdateAlbum(ctx, form, token); err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	s.albums.Invalidate()
	return nil
}

func (s *Service) SetAlbumActive(ctx context.Context, id int64, active bool, token string) error {
	if err := s.api.ToggleAlbumStatus(ctx, id, active, token); err != nil {
		return fmt.Errorf("toggle album status: %w", err)
	}
	s.albums.Invalidate()
	return nil
}

// Stats is the admin dashboard's active/inactive breakdown per category.
type Stats struct {
	ActiveBooksCount    int `json:"activeBooksCount"`
	InactiveBooksCount  int `json:"inactiveBooksCount"`
	ActiveAlbumsCount   int `json:"activeAlbumsCount"`
	InactiveAlbumsCount int `json:"inactiveAlbumsCount"`
}

func (s *Service) Stats(ctx context.Context, token string) (*Stats, error) {
	raw, err := s.api.AdminStats(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch admin stats: %w", err)
	}

	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode admin stats: %w", err)
	}
	return &stats, nil
}
