// Package pricing holds the discount math shared by the cart and the
// checkout flow. Everything here is pure; values keep full float precision,
// rounding happens only where a price is rendered.
package pricing

// Line is the minimal view of a cart line the engine needs.
type Line struct {
	Price              float64
	DiscountPercentage float64
	DiscountActive     bool
	Quantity           int
}

// EffectivePrice returns the unit price after applying an active discount.
// An inactive or non-positive discount leaves the original price untouched.
func EffectivePrice(originalPrice, discountPercentage float64, discountActive bool) float64 {
	if !discountActive || discountPercentage <= 0 {
		return originalPrice
	}
	return originalPrice * (1 - discountPercentage/100)
}

// LineSubtotal is the discounted unit price multiplied by the line quantity.
func LineSubtotal(line Line) float64 {
	return EffectivePrice(line.Price, line.DiscountPercentage, line.DiscountActive) * float64(line.Quantity)
}

// CartTotal sums the subtotals of all lines.
func CartTotal(lines []Line) float64 {
	var total float64
	for _, line := range lines {
		total += LineSubtotal(line)
	}
	return total
}

// CartSavings is the display-only amount saved by active discounts. Zero when
// no line carries an active discount.
func CartSavings(lines []Line) float64 {
	var savings float64
	for _, line := range lines {
		saved := line.Price - EffectivePrice(line.Price, line.DiscountPercentage, line.DiscountActive)
		savings += saved * float64(line.Quantity)
	}
	return savings
}
