package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JoLazarte/marketplace-client/internal/api"
	"github.com/JoLazarte/marketplace-client/internal/domain"
)

// listPageSize matches the backend's default page size.
const listPageSize = 10

type bookDTO struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Author             string          `json:"author"`
	Description        string          `json:"description"`
	Price              float64         `json:"price"`
	Stock              int             `json:"stock"`
	Active             bool            `json:"active"`
	DiscountPercentage float64         `json:"discountPercentage"`
	DiscountActive     bool            `json:"discountActive"`
	URLImage           domain.ImageURL `json:"urlImage"`
	Editorial          string          `json:"editorial"`
	ISBN               string          `json:"isbn"`
	GenreBooks         []string        `json:"genreBooks"`
}

func (d bookDTO) product() domain.Product {
	return domain.Product{
		ID:                 d.ID,
		Kind:               domain.KindBook,
		Title:              d.Title,
		Author:             d.Author,
		Description:        d.Description,
		Price:              d.Price,
		Stock:              d.Stock,
		Active:             d.Active,
		DiscountPercentage: d.DiscountPercentage,
		DiscountActive:     d.DiscountActive,
		ImageURL:           string(d.URLImage),
		Genres:             d.GenreBooks,
		Editorial:          d.Editorial,
		ISBN:               d.ISBN,
	}
}

type albumDTO struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Author             string          `json:"author"`
	Artist             string          `json:"artist"`
	Description        string          `json:"description"`
	Price              float64         `json:"price"`
	Stock              int             `json:"stock"`
	Active             bool            `json:"active"`
	DiscountPercentage float64         `json:"discountPercentage"`
	DiscountActive     bool            `json:"discountActive"`
	URLImage           domain.ImageURL `json:"urlImage"`
	RecordLabel        string          `json:"recordLabel"`
	Year               int             `json:"year"`
	ISRC               string          `json:"isrc"`
	Genres             []string        `json:"genres"`
}

func (d albumDTO) product() domain.Product {
	author := d.Author
	if author == "" {
		author = d.Artist
	}
	return domain.Product{
		ID:                 d.ID,
		Kind:               domain.KindAlbum,
		Title:              d.Title,
		Author:             author,
		Description:        d.Description,
		Price:              d.Price,
		Stock:              d.Stock,
		Active:             d.Active,
		DiscountPercentage: d.DiscountPercentage,
		DiscountActive:     d.DiscountActive,
		ImageURL:           string(d.URLImage),
		Genres:             d.Genres,
		RecordLabel:        d.RecordLabel,
		Year:               d.Year,
		ISRC:               d.ISRC,
	}
}

// BookSource fetches the book category through the backend client.
type BookSource struct {
	api *api.Client
}

func NewBookSource(client *api.Client) *BookSource {
	return &BookSource{api: client}
}

func (s *BookSource) List(ctx context.Context, activeOnly bool, token string) ([]domain.Product, error) {
	raw, err := s.api.ListBooks(ctx, api.ListQuery{ActiveOnly: activeOnly, Size: listPageSize}, token)
	if err != nil {
		return nil, err
	}

	var dtos []bookDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	products := make([]domain.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.product())
	}
	return products, nil
}

func (s *BookSource) Get(ctx context.Context, id int64, activeOnly bool, token string) (*domain.Product, error) {
	raw, err := s.api.GetBook(ctx, id, activeOnly, token)
	if err != nil {
		return nil, err
	}

	var dto bookDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode book %d: %w", id, err)
	}
	product := dto.product()
	return &product, nil
}

// AlbumSource fetches the music-album category through the backend client.
type AlbumSource struct {
	api *api.Client
}

func NewAlbumSource(client *api.Client) *AlbumSource {
	return &AlbumSource{api: client}
}

func (s *AlbumSource) List(ctx context.Context, activeOnly bool, token string) ([]domain.Product, error) {
	raw, err := s.api.ListAlbums(ctx, api.ListQuery{ActiveOnly: activeOnly, Size: listPageSize}, token)
	if err != nil {
		return nil, err
	}

	var dtos []albumDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode albums: %w", err)
	}

	products := make([]domain.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.product())
	}
	return products, nil
}

func (s *AlbumSource) Get(ctx context.Context, id int64, activeOnly bool, token string) (*domain.Product, error) {
	raw, err := s.api.GetAlbum(ctx, id, activeOnly, token)
	if err != nil {
		return nil, err
	}

	var dto albumDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode album %d: %w", id, err)
	}
	product := dto.product()
	return &product, nil
}
