package models

// Ticket statuses as reported by the ticketing service.
const (
	TicketBlocked   = "BLOCKED"
	TicketConfirmed = "CONFIRMED"
	TicketCancelled = "CANCELLED"
	TicketFailed    = "FAILED"
)

// TicketSummary is the confirmation card shown after booking or when the
// user asks about an existing ticket.
type TicketSummary struct {
	OrderID     string         `json:"orderId"`
	TicketNo    string         `json:"ticketNumber,omitempty"`
	Status      string         `json:"status"`
	TripID      int64          `json:"tripID,omitempty"`
	Origin      string         `json:"origin,omitempty"`
	Destination string         `json:"destination,omitempty"`
	TravelDate  string         `json:"travelDate,omitempty"`
	StartTime   string         `json:"startTime,omitempty"`
	Boarding    string         `json:"boardingPoint,omitempty"`
	Dropping    string         `json:"droppingPoint,omitempty"`
	SeatNumbers []string       `json:"seatNumbers,omitempty"`
	Passengers  []Passenger    `json:"passengers,omitempty"`
	Fare        *FareBreakdown `json:"fare,omitempty"`
}

// PolicySlab is one row of a cancellation policy table.
type PolicySlab struct {
	Window  string  `json:"window"`
	Percent float64 `json:"chargePercent"`
	Amount  float64 `json:"chargeAmount,omitempty"`
}

// CancellationRecord is the cancellation card: which seats may still be
// cancelled on a ticket and under what policy.
type CancellationRecord struct {
	OrderID     string       `json:"orderId"`
	TicketNo    string       `json:"ticketNumber,omitempty"`
	SeatNumbers []string     `json:"seatNumbers,omitempty"`
	Refundable  float64      `json:"refundableAmount,omitempty"`
	Policies    []PolicySlab `json:"cancellationPolicy,omitempty"`
	Message     string       `json:"message,omitempty"`
}
