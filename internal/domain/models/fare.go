package models

// PromoCard is a flat-amount discount instrument, usable at most once per
// booking. Discount is the flat cut; Balance is what's left on the card.
type PromoCard struct {
	Name     string  `json:"cardName,omitempty"`
	Discount float64 `json:"discountAmount"`
	Balance  float64 `json:"remainingBalance"`
}

// Usable reports whether the card can still be applied to a booking.
func (c PromoCard) Usable() bool {
	return c.Discount > 0 && c.Balance > 0
}

// DiscountInstruments carries the two optional reductions supplied per query
// response. They belong to the user, not to any offer, and apply to whichever
// booking is currently open.
type DiscountInstruments struct {
	Coins int        `json:"coins"`
	Card  *PromoCard `json:"card,omitempty"`
}

// FareBreakdown is the result of fare reconciliation across selected seats.
// Total = max(0, Base+Tax+PromoDiscount sums − CardDiscount − CoinDiscount).
type FareBreakdown struct {
	Base          float64 `json:"baseFare"`
	Tax           float64 `json:"tax"`
	PromoDiscount float64 `json:"promoDiscount"`
	CardDiscount  float64 `json:"cardDiscount"`
	CoinDiscount  float64 `json:"coinDiscount"`
	CoinsApplied  int     `json:"coinsApplied"`
	Total         float64 `json:"total"`
}

// Subtotal is the pre-instrument payable amount.
func (f FareBreakdown) Subtotal() float64 {
	return f.Base + f.Tax + f.PromoDiscount
}
