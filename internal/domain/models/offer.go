package models

// Fare tiers as the upstream service names them. The tier map on an offer
// only ever carries these keys; anything else is dropped during normalization.
const (
	TierPremium    = "Premium"
	TierReasonable = "Reasonable"
	TierBudget     = "Budget-Friendly"
)

// TierOrder is the display order for flattened category cards.
var TierOrder = []string{TierPremium, TierReasonable, TierBudget}

// StopPoint is a boarding or dropping location on an itinerary.
type StopPoint struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Time string `json:"time,omitempty"`
}

// SeatFare is the per-seat price breakdown. All amounts are non-negative.
type SeatFare struct {
	Base          float64 `json:"baseFare"`
	Tax           float64 `json:"tax"`
	PromoDiscount float64 `json:"discount"`
}

// Seat placement within the cabin.
const (
	PlacementWindow = "window"
	PlacementAisle  = "aisle"
)

// Gender restrictions resolved from the offer's assignment map.
const (
	GenderMaleOnly   = "male"
	GenderFemaleOnly = "female"
)

// Seat is one bookable seat. Placement and Gender are filled in by the
// category flattener; the upstream payload groups seats by placement instead.
type Seat struct {
	ID        int64    `json:"id"`
	Number    string   `json:"seatNumber"`
	Placement string   `json:"placement,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Fare      SeatFare `json:"fare"`
}

// SeatGroup holds a tier's seats split by placement, as sent upstream.
type SeatGroup struct {
	Window []Seat `json:"window"`
	Aisle  []Seat `json:"aisle"`
}

// Empty reports whether the group has no seats in either placement.
func (g SeatGroup) Empty() bool {
	return len(g.Window) == 0 && len(g.Aisle) == 0
}

// BusOffer is one itinerary returned by search. Tiers maps tier name to its
// seat groups; GenderMap maps tier name -> seat id -> gender restriction.
type BusOffer struct {
	TripID              int64                        `json:"tripID"`
	Origin              string                       `json:"origin"`
	Destination         string                       `json:"destination"`
	StartTime           string                       `json:"startTime"`
	EndTime             string                       `json:"endTime"`
	Duration            string                       `json:"duration"`
	Rating              float64                      `json:"rating"`
	BoardingPoints      []StopPoint                  `json:"boardingPoints,omitempty"`
	DroppingPoints      []StopPoint                  `json:"droppingPoints,omitempty"`
	RecommendedBoarding []StopPoint                  `json:"recommendedBoardingPoints,omitempty"`
	RecommendedDropping []StopPoint                  `json:"recommendedDroppingPoints,omitempty"`
	Tiers               map[string]SeatGroup         `json:"recommendedSeats,omitempty"`
	GenderMap           map[string]map[string]string `json:"seatGenderMap,omitempty"`
}

// CategoryOffer is a read-only view pairing an offer with exactly one tier
// and that tier's flattened seat list. Built fresh on every render pass.
type CategoryOffer struct {
	TripID      int64       `json:"tripID"`
	Tier        string      `json:"tier"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	Duration    string      `json:"duration"`
	Rating      float64     `json:"rating"`
	Boarding    []StopPoint `json:"boardingPoints,omitempty"`
	Dropping    []StopPoint `json:"droppingPoints,omitempty"`
	Seats       []Seat      `json:"seats"`
}
