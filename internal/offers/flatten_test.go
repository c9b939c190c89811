package offers

import (
	"testing"

	"buschat/internal/domain/models"
)

func sampleOffer() models.BusOffer {
	return models.BusOffer{
		TripID:      42,
		Origin:      "Mumbai",
		Destination: "Pune",
		StartTime:   "07:30",
		EndTime:     "11:00",
		Duration:    "3h 30m",
		Rating:      4.2,
		BoardingPoints: []models.StopPoint{
			{ID: 1, Name: "Dadar"}, {ID: 2, Name: "Sion"},
		},
		RecommendedBoarding: []models.StopPoint{{ID: 1, Name: "Dadar"}},
		DroppingPoints:      []models.StopPoint{{ID: 9, Name: "Shivajinagar"}},
		Tiers: map[string]models.SeatGroup{
			models.TierBudget: {
				Window: []models.Seat{{ID: 11, Number: "W1"}},
				Aisle:  []models.Seat{{ID: 12, Number: "A1"}},
			},
			models.TierPremium: {
				Window: []models.Seat{{ID: 21, Number: "P1"}},
			},
		},
		GenderMap: map[string]map[string]string{
			models.TierBudget: {"11": "F", "12": "male"},
		},
	}
}

func TestFlattenTierOrderAndCount(t *testing.T) {
	cards := Flatten(sampleOffer())
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Tier != models.TierPremium || cards[1].Tier != models.TierBudget {
		t.Fatalf("tier order wrong: %s, %s", cards[0].Tier, cards[1].Tier)
	}
	for _, card := range cards {
		if card.TripID != 42 || card.Origin != "Mumbai" || card.Destination != "Pune" {
			t.Fatalf("itinerary not carried onto card: %+v", card)
		}
	}
}

func TestFlattenEmptyTiersYieldNothing(t *testing.T) {
	offer := sampleOffer()
	offer.Tiers = map[string]models.SeatGroup{
		models.TierPremium: {},
		models.TierBudget:  {Window: []models.Seat{}, Aisle: []models.Seat{}},
	}
	if cards := Flatten(offer); len(cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(cards))
	}

	offer.Tiers = nil
	if cards := Flatten(offer); len(cards) != 0 {
		t.Fatalf("expected no cards for nil tiers, got %d", len(cards))
	}
}

func TestFlattenSingleTier(t *testing.T) {
	offer := sampleOffer()
	offer.Tiers = map[string]models.SeatGroup{
		models.TierBudget: {Aisle: []models.Seat{{ID: 1, Number: "A1"}}},
	}
	cards := Flatten(offer)
	if len(cards) != 1 || cards[0].Tier != models.TierBudget {
		t.Fatalf("cards = %+v", cards)
	}
}

func TestFlattenTagsPlacementAndGender(t *testing.T) {
	cards := Flatten(sampleOffer())
	budget := cards[1]
	if len(budget.Seats) != 2 {
		t.Fatalf("expected 2 budget seats, got %d", len(budget.Seats))
	}

	window := budget.Seats[0]
	if window.Placement != models.PlacementWindow {
		t.Fatalf("window seat placement = %q", window.Placement)
	}
	if window.Gender != models.GenderFemaleOnly {
		t.Fatalf("seat 11 gender = %q, want female (mapped from F)", window.Gender)
	}

	aisle := budget.Seats[1]
	if aisle.Placement != models.PlacementAisle {
		t.Fatalf("aisle seat placement = %q", aisle.Placement)
	}
	if aisle.Gender != models.GenderMaleOnly {
		t.Fatalf("seat 12 gender = %q, want male", aisle.Gender)
	}

	premium := cards[0].Seats[0]
	if premium.Gender != "" {
		t.Fatalf("unmapped seat must be unrestricted, got %q", premium.Gender)
	}
}

func TestFlattenGenderMarkersAnyCase(t *testing.T) {
	offer := sampleOffer()
	offer.Tiers = map[string]models.SeatGroup{
		models.TierBudget: {
			Window: []models.Seat{{ID: 1, Number: "W1"}, {ID: 2, Number: "W2"}},
			Aisle:  []models.Seat{{ID: 3, Number: "A1"}, {ID: 4, Number: "A2"}},
		},
	}
	offer.GenderMap = map[string]map[string]string{
		models.TierBudget: {"1": "MALE", "2": "f", "3": "m", "4": "FEMALE"},
	}
	seats := Flatten(offer)[0].Seats
	want := []string{
		models.GenderMaleOnly, models.GenderFemaleOnly,
		models.GenderMaleOnly, models.GenderFemaleOnly,
	}
	for i, s := range seats {
		if s.Gender != want[i] {
			t.Fatalf("seat %s gender = %q, want %q", s.Number, s.Gender, want[i])
		}
	}
}

func TestFlattenPrefersRecommendedPoints(t *testing.T) {
	cards := Flatten(sampleOffer())
	if len(cards[0].Boarding) != 1 || cards[0].Boarding[0].Name != "Dadar" {
		t.Fatalf("boarding = %+v, want recommended subset", cards[0].Boarding)
	}
	if len(cards[0].Dropping) != 1 || cards[0].Dropping[0].Name != "Shivajinagar" {
		t.Fatalf("dropping = %+v, want full list fallback", cards[0].Dropping)
	}
}

func TestFlattenDoesNotMutateOffer(t *testing.T) {
	offer := sampleOffer()
	_ = Flatten(offer)
	if offer.Tiers[models.TierBudget].Window[0].Placement != "" {
		t.Fatalf("flatten mutated the source offer")
	}
}

func TestFlattenAllKeepsOfferOrder(t *testing.T) {
	a := sampleOffer()
	b := sampleOffer()
	b.TripID = 43
	cards := FlattenAll([]models.BusOffer{a, b})
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	if cards[0].TripID != 42 || cards[2].TripID != 43 {
		t.Fatalf("offer order not preserved: %d, %d", cards[0].TripID, cards[2].TripID)
	}
}

func TestBareCardForSalvagedOffer(t *testing.T) {
	offer := models.BusOffer{TripID: 99, Origin: "Chennai", Destination: "Bangalore"}
	card := Bare(offer)
	if card.TripID != 99 || card.Tier != "" {
		t.Fatalf("bare card = %+v", card)
	}
	if len(card.Seats) != 0 {
		t.Fatalf("bare card must not invent seats")
	}
}
