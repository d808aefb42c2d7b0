package purchase

// PaymentMethod is ephemeral checkout state; nothing here talks to a real
// payment processor.
type PaymentMethod string

const (
	PaymentCard        PaymentMethod = "CARD"
	PaymentCash        PaymentMethod = "CASH"
	PaymentPayPal      PaymentMethod = "PAYPAL"
	PaymentMercadoPago PaymentMethod = "MERCADOPAGO"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentPayPal, PaymentMercadoPago:
		return true
	}
	return false
}

// Implemented reports whether the method can actually complete a purchase.
// Only the inline card form is wired up; the rest are placeholders that
// block confirmation.
func (m PaymentMethod) Implemented() bool {
	return m == PaymentCard
}

// CardDetails is the inline card form. Held in memory only, never persisted.
type CardDetails struct {
	Number string `json:"cardNumber"`
	Holder string `json:"cardName"`
	Expiry string `json:"cardExpiry"`
	CVV    string `json:"cardCVV"`
}

// Complete requires every field to be filled before confirmation.
func (c CardDetails) Complete() bool {
	return c.Number != "" && c.Holder != "" && c.Expiry != "" && c.CVV != ""
}
