// Package offers expands nested per-tier seat recommendations into the
// independent bookable cards the chat UI renders.
package offers

import (
	"strconv"
	"strings"

	"buschat/internal/domain/models"
)

// Flatten produces one CategoryOffer per tier that holds at least one seat,
// in fixed tier order (Premium, Reasonable, Budget-Friendly). An offer with
// no populated tier contributes nothing. Offers are never mutated; every
// card is built fresh.
func Flatten(offer models.BusOffer) []models.CategoryOffer {
	var cards []models.CategoryOffer
	for _, tier := range models.TierOrder {
		group, ok := offer.Tiers[tier]
		if !ok || group.Empty() {
			continue
		}
		cards = append(cards, models.CategoryOffer{
			TripID:      offer.TripID,
			Tier:        tier,
			Origin:      offer.Origin,
			Destination: offer.Destination,
			StartTime:   offer.StartTime,
			EndTime:     offer.EndTime,
			Duration:    offer.Duration,
			Rating:      offer.Rating,
			Boarding:    pickPoints(offer.RecommendedBoarding, offer.BoardingPoints),
			Dropping:    pickPoints(offer.RecommendedDropping, offer.DroppingPoints),
			Seats:       flattenSeats(offer, tier, group),
		})
	}
	return cards
}

// FlattenAll expands every offer in a normalized list, keeping offer order.
func FlattenAll(list []models.BusOffer) []models.CategoryOffer {
	var cards []models.CategoryOffer
	for _, offer := range list {
		cards = append(cards, Flatten(offer)...)
	}
	return cards
}

// Bare renders an offer with no populated tiers (a salvaged minimal offer)
// as a single untiered card so the itinerary is still visible.
func Bare(offer models.BusOffer) models.CategoryOffer {
	return models.CategoryOffer{
		TripID:      offer.TripID,
		Origin:      offer.Origin,
		Destination: offer.Destination,
		StartTime:   offer.StartTime,
		EndTime:     offer.EndTime,
		Duration:    offer.Duration,
		Rating:      offer.Rating,
		Boarding:    pickPoints(offer.RecommendedBoarding, offer.BoardingPoints),
		Dropping:    pickPoints(offer.RecommendedDropping, offer.DroppingPoints),
	}
}

// flattenSeats merges the window and aisle groups into one list, tagging
// each seat with its placement and any gender restriction from the offer's
// assignment map.
func flattenSeats(offer models.BusOffer, tier string, group models.SeatGroup) []models.Seat {
	seats := make([]models.Seat, 0, len(group.Window)+len(group.Aisle))
	for _, s := range group.Window {
		s.Placement = models.PlacementWindow
		s.Gender = genderFor(offer, tier, s.ID)
		seats = append(seats, s)
	}
	for _, s := range group.Aisle {
		s.Placement = models.PlacementAisle
		s.Gender = genderFor(offer, tier, s.ID)
		seats = append(seats, s)
	}
	return seats
}

// genderFor resolves a seat's restriction from the tier+seat-id map.
// Markers arrive in mixed case ("M", "male", "FEMALE"); absent entries
// mean unrestricted.
func genderFor(offer models.BusOffer, tier string, seatID int64) string {
	byTier, ok := offer.GenderMap[tier]
	if !ok {
		return ""
	}
	switch strings.ToLower(byTier[strconv.FormatInt(seatID, 10)]) {
	case "m", "male":
		return models.GenderMaleOnly
	case "f", "female":
		return models.GenderFemaleOnly
	default:
		return ""
	}
}

// pickPoints prefers the recommended subset when the backend sent one.
func pickPoints(recommended, full []models.StopPoint) []models.StopPoint {
	if len(recommended) > 0 {
		return recommended
	}
	return full
}
