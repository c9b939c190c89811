// Package fare reconciles seat prices with the two discount instruments:
// loyalty coins (integer, 1 coin = 1 currency unit) and the flat-amount
// promotional card. All entry points are pure functions of their inputs.
package fare

import (
	"math"

	"buschat/internal/domain/models"
)

// Compute produces the payable breakdown for the selected seats.
//
// The card, when applied, cuts first and is capped at the pre-coin subtotal.
// Coins then cover up to the ceiling of whatever remains, so integer coins
// can never push the total below zero. Without a card the coin cap is the
// ceiling of the full subtotal.
func Compute(seats []models.Seat, appliedCoins int, cardApplied bool, card *models.PromoCard) models.FareBreakdown {
	var b models.FareBreakdown
	for _, seat := range seats {
		b.Base += seat.Fare.Base
		b.Tax += seat.Fare.Tax
		b.PromoDiscount += seat.Fare.PromoDiscount
	}
	subtotal := b.Subtotal()

	if cardApplied && card != nil && card.Discount > 0 {
		b.CardDiscount = math.Min(card.Discount, subtotal)
	}
	remaining := subtotal - b.CardDiscount

	if appliedCoins > 0 {
		limit := int(math.Ceil(remaining))
		if limit < 0 {
			limit = 0
		}
		coins := appliedCoins
		if coins > limit {
			coins = limit
		}
		b.CoinsApplied = coins
		b.CoinDiscount = float64(coins)
	}

	b.Total = subtotal - b.CardDiscount - b.CoinDiscount
	if b.Total < 0 {
		b.Total = 0
	}
	return b
}

// AutoApply is the booking-form convenience policy: previously chosen
// discounts are discarded, coins go in up to min(available, ceil(subtotal)),
// and the card goes in whenever it still has balance. Returns the resulting
// breakdown together with what got selected, so the form can show both.
func AutoApply(seats []models.Seat, inst models.DiscountInstruments) (models.FareBreakdown, int, bool) {
	subtotal := Compute(seats, 0, false, nil).Subtotal()

	coins := inst.Coins
	if limit := int(math.Ceil(subtotal)); coins > limit {
		coins = limit
	}
	if coins < 0 {
		coins = 0
	}

	cardApplied := inst.Card != nil && inst.Card.Usable()

	return Compute(seats, coins, cardApplied, inst.Card), coins, cardApplied
}
