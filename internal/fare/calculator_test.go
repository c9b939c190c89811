package fare

import (
	"testing"

	"buschat/internal/domain/models"
)

func seatsTotaling(amounts ...float64) []models.Seat {
	seats := make([]models.Seat, 0, len(amounts))
	for i, amt := range amounts {
		seats = append(seats, models.Seat{
			ID:   int64(i + 1),
			Fare: models.SeatFare{Base: amt},
		})
	}
	return seats
}

func TestComputeNoDiscounts(t *testing.T) {
	seats := []models.Seat{
		{ID: 1, Fare: models.SeatFare{Base: 250, Tax: 40, PromoDiscount: 10}},
		{ID: 2, Fare: models.SeatFare{Base: 250, Tax: 40, PromoDiscount: 10}},
	}
	b := Compute(seats, 0, false, nil)
	if b.Base != 500 || b.Tax != 80 || b.PromoDiscount != 20 {
		t.Fatalf("sums wrong: %+v", b)
	}
	if b.Total != b.Subtotal() {
		t.Fatalf("total %v != subtotal %v with no instruments", b.Total, b.Subtotal())
	}
	if b.CoinsApplied != 0 || b.CardDiscount != 0 {
		t.Fatalf("phantom discount applied: %+v", b)
	}
}

func TestComputeExactRupeeFare(t *testing.T) {
	b := Compute(seatsTotaling(300.00), 0, false, nil)
	if b.Total != 300.00 {
		t.Fatalf("total = %v, want 300.00", b.Total)
	}
}

func TestComputeCoinsAndCardScenario(t *testing.T) {
	// Subtotal 1200, card 500, coins 100 -> 1200 - 500 - 100 = 600.
	seats := seatsTotaling(600, 600)
	card := &models.PromoCard{Discount: 500, Balance: 500}
	b := Compute(seats, 100, true, card)
	if b.CardDiscount != 500 {
		t.Fatalf("card discount = %v, want 500", b.CardDiscount)
	}
	if b.CoinsApplied != 100 || b.CoinDiscount != 100 {
		t.Fatalf("coins = %d/%v, want 100", b.CoinsApplied, b.CoinDiscount)
	}
	if b.Total != 600 {
		t.Fatalf("total = %v, want 600", b.Total)
	}
}

func TestCardCappedAtSubtotal(t *testing.T) {
	seats := seatsTotaling(200)
	card := &models.PromoCard{Discount: 1000, Balance: 1000}
	b := Compute(seats, 0, true, card)
	if b.CardDiscount != 200 {
		t.Fatalf("card discount = %v, want capped 200", b.CardDiscount)
	}
	if b.Total != 0 {
		t.Fatalf("total = %v, want 0", b.Total)
	}
}

func TestCoinsCappedAtCeilOfRemaining(t *testing.T) {
	seats := seatsTotaling(100.40)
	b := Compute(seats, 500, false, nil)
	if b.CoinsApplied != 101 {
		t.Fatalf("coins applied = %d, want ceil(100.40) = 101", b.CoinsApplied)
	}
	if b.Total != 0 {
		t.Fatalf("total = %v, want clamped 0", b.Total)
	}
}

func TestCoinsAfterCardUseRemainingOnly(t *testing.T) {
	seats := seatsTotaling(1000)
	card := &models.PromoCard{Discount: 900, Balance: 900}
	b := Compute(seats, 500, true, card)
	if b.CoinsApplied != 100 {
		t.Fatalf("coins applied = %d, want 100 (remaining after card)", b.CoinsApplied)
	}
	if b.Total != 0 {
		t.Fatalf("total = %v, want 0", b.Total)
	}
}

func TestTotalIsMonotonicInCoins(t *testing.T) {
	seats := seatsTotaling(450, 330)
	prev := Compute(seats, 0, false, nil).Total
	for coins := 1; coins <= 900; coins += 37 {
		total := Compute(seats, coins, false, nil).Total
		if total > prev {
			t.Fatalf("total increased from %v to %v at coins=%d", prev, total, coins)
		}
		if total < 0 {
			t.Fatalf("total went negative: %v at coins=%d", total, coins)
		}
		prev = total
	}
}

func TestAutoApplyPolicy(t *testing.T) {
	seats := seatsTotaling(400)
	inst := models.DiscountInstruments{
		Coins: 1000,
		Card:  &models.PromoCard{Discount: 150, Balance: 150},
	}
	b, coins, cardApplied := AutoApply(seats, inst)
	if !cardApplied {
		t.Fatalf("usable card must auto-apply")
	}
	if coins != 400 {
		t.Fatalf("coins = %d, want capped at ceil(subtotal) = 400", coins)
	}
	if b.Total != 0 {
		t.Fatalf("total = %v, want 0", b.Total)
	}
}

func TestAutoApplySkipsDrainedCard(t *testing.T) {
	seats := seatsTotaling(400)
	inst := models.DiscountInstruments{
		Card: &models.PromoCard{Discount: 150, Balance: 0},
	}
	b, coins, cardApplied := AutoApply(seats, inst)
	if cardApplied {
		t.Fatalf("zero-balance card must not apply")
	}
	if coins != 0 || b.Total != 400 {
		t.Fatalf("breakdown = %+v coins=%d", b, coins)
	}
}
