package cart

import (
	"github.com/JoLazarte/marketplace-client/internal/domain"
	"github.com/JoLazarte/marketplace-client/internal/pricing"
)

// Line is one product entry in the cart. Price is the original unit price;
// the discounted value is always derived through the pricing package. Kind
// is carried from the product at ingestion time.
type Line struct {
	ID                 int64       `json:"id"`
	Kind               domain.Kind `json:"kind"`
	Title              string      `json:"title"`
	Price              float64     `json:"price"`
	Quantity           int         `json:"quantity"`
	Stock              int         `json:"stock"`
	DiscountPercentage float64     `json:"discountPercentage"`
	DiscountActive     bool        `json:"discountActive"`
	ImageURL           string      `json:"urlImage"`
}

// NewLine builds a cart line from a catalog product with the requested
// quantity. The stock ceiling is snapshotted at add time.
func NewLine(p domain.Product, quantity int) Line {
	return Line{
		ID:                 p.ID,
		Kind:               p.Kind,
		Title:              p.Title,
		Price:              p.Price,
		Quantity:           quantity,
		Stock:              p.Stock,
		DiscountPercentage: p.DiscountPercentage,
		DiscountActive:     p.DiscountActive,
		ImageURL:           p.ImageURL,
	}
}

func (l Line) pricingLine() pricing.Line {
	return pricing.Line{
		Price:              l.Price,
		DiscountPercentage: l.DiscountPercentage,
		DiscountActive:     l.DiscountActive,
		Quantity:           l.Quantity,
	}
}

// EffectivePrice is the discounted unit price of this line.
func (l Line) EffectivePrice() float64 {
	return pricing.EffectivePrice(l.Price, l.DiscountPercentage, l.DiscountActive)
}

// Subtotal is the discounted price multiplied by quantity.
func (l Line) Subtotal() float64 {
	return pricing.LineSubtotal(l.pricingLine())
}
