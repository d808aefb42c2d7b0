// Package domain holds the product model shared by the catalog, cart,
// checkout and admin packages.
package domain

import "encoding/json"

// Kind discriminates books from music albums. It is set once, when a product
// is decoded off the wire, and every later branch keys on it instead of
// probing for album-only fields.
type Kind string

const (
	KindBook  Kind = "BOOK"
	KindAlbum Kind = "ALBUM"
)

// ImageURL tolerates the backend sending either a string or an array of
// strings; the first element is canonical.
type ImageURL string

func (u *ImageURL) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*u = ImageURL(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if len(many) > 0 {
		*u = ImageURL(many[0])
	}
	return nil
}

// Product is the shared book/album shape. Genres is the unified genre-tag
// collection (genreBooks for books, genres for albums).
type Product struct {
	ID                 int64    `json:"id"`
	Kind               Kind     `json:"kind"`
	Title              string   `json:"title"`
	Author             string   `json:"author"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	Stock              int      `json:"stock"`
	Active             bool     `json:"active"`
	DiscountPercentage float64  `json:"discountPercentage"`
	DiscountActive     bool     `json:"discountActive"`
	ImageURL           string   `json:"urlImage"`
	Genres             []string `json:"genres"`

	// book-only
	Editorial string `json:"editorial,omitempty"`
	ISBN      string `json:"isbn,omitempty"`

	// album-only
	RecordLabel string `json:"recordLabel,omitempty"`
	Year        int    `json:"year,omitempty"`
	ISRC        string `json:"isrc,omitempty"`
}
