package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice_InactiveDiscountKeepsPrice(t *testing.T) {
	for _, pct := range []float64{0, 10, 50, 100} {
		assert.Equal(t, 42.5, EffectivePrice(42.5, pct, false))
	}
}

func TestEffectivePrice_ZeroOrNegativePercentageKeepsPrice(t *testing.T) {
	assert.Equal(t, 19.99, EffectivePrice(19.99, 0, true))
	assert.Equal(t, 19.99, EffectivePrice(19.99, -5, true))
}

func TestEffectivePrice_ActiveDiscount(t *testing.T) {
	assert.InDelta(t, 75.0, EffectivePrice(100, 25, true), 1e-9)
	assert.InDelta(t, 0.0, EffectivePrice(100, 100, true), 1e-9)

	// never negative, never above the original price
	for _, pct := range []float64{0, 1, 33.3, 99, 100} {
		got := EffectivePrice(80, pct, true)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 80.0)
	}
}

func TestLineSubtotal_DiscountedLine(t *testing.T) {
	line := Line{Price: 100, DiscountPercentage: 25, DiscountActive: true, Quantity: 2}
	assert.InDelta(t, 150.0, LineSubtotal(line), 1e-9)
}

func TestCartTotal_EmptyCartIsZero(t *testing.T) {
	assert.Zero(t, CartTotal(nil))
	assert.Zero(t, CartTotal([]Line{}))
}

func TestCartTotal_Additive(t *testing.T) {
	a := []Line{
		{Price: 10, Quantity: 1},
		{Price: 20, DiscountPercentage: 50, DiscountActive: true, Quantity: 3},
	}
	b := []Line{
		{Price: 7.5, Quantity: 2},
	}
	assert.InDelta(t, CartTotal(a)+CartTotal(b), CartTotal(append(append([]Line{}, a...), b...)), 1e-9)
}

func TestCartSavings(t *testing.T) {
	lines := []Line{
		{Price: 100, DiscountPercentage: 25, DiscountActive: true, Quantity: 2},
		{Price: 30, DiscountPercentage: 50, DiscountActive: false, Quantity: 1},
	}
	assert.InDelta(t, 50.0, CartSavings(lines), 1e-9)

	noDiscount := []Line{{Price: 10, Quantity: 4}}
	assert.Zero(t, CartSavings(noDiscount))
}
