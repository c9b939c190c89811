package services

import (
	"context"
	"fmt"
	"strings"

	"buschat/internal/domain"
	"buschat/internal/domain/models"
	"buschat/internal/fare"
	"buschat/internal/store"
	"buschat/internal/upstream"
	"buschat/internal/utils"
)

// BookingForm is what the seat-map card submits.
type BookingForm struct {
	TripID     int64              `json:"tripID"`
	Tier       string             `json:"tier"`
	BoardingID int64              `json:"boardingPointId"`
	DroppingID int64              `json:"droppingPointId"`
	Seats      []models.Seat      `json:"seats"`
	Passengers []models.Passenger `json:"passengers"`
	ApplyCoins int                `json:"applyCoins"`
	ApplyCard  bool               `json:"applyCard"`
}

// BookingService validates forms, reconciles fares, and drives the block
// and cancel calls.
type BookingService struct {
	Registry  *store.Registry
	Store     *store.Store
	RequestID string
}

// ValidateForm enforces the business rules a request must pass before it is
// ever sent upstream: at least one seat, a boarding and dropping point, and
// one complete passenger per seat, bound by position.
func (s BookingService) ValidateForm(form BookingForm) error {
	if form.TripID == 0 {
		return domain.ValidationError{Field: "tripID", Msg: "trip is required"}
	}
	if len(form.Seats) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "select at least one seat"}
	}
	if form.BoardingID == 0 {
		return domain.ValidationError{Field: "boardingPointId", Msg: "select a boarding point"}
	}
	if form.DroppingID == 0 {
		return domain.ValidationError{Field: "droppingPointId", Msg: "select a dropping point"}
	}
	if len(form.Passengers) != len(form.Seats) {
		return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("need %d passengers, got %d", len(form.Seats), len(form.Passengers))}
	}
	for i, p := range form.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d: name is required", i+1)}
		}
		if p.Age < 1 || p.Age > 120 {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d: age must be between 1 and 120", i+1)}
		}
		gender := strings.ToLower(strings.TrimSpace(p.Gender))
		if gender != "male" && gender != "female" && gender != "other" {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d: gender is required", i+1)}
		}
		if restriction := form.Seats[i].Gender; restriction != "" && gender != restriction {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("seat %s is reserved for %s passengers", form.Seats[i].Number, restriction)}
		}
	}
	return nil
}

// Quote computes the payable breakdown for the form's current selections.
func (s BookingService) Quote(form BookingForm, inst models.DiscountInstruments) models.FareBreakdown {
	coins := form.ApplyCoins
	if coins > inst.Coins {
		coins = inst.Coins
	}
	return fare.Compute(form.Seats, coins, form.ApplyCard, inst.Card)
}

// AutoQuote is the form-open default: discounts reset and re-applied
// automatically up to their caps.
func (s BookingService) AutoQuote(seats []models.Seat, inst models.DiscountInstruments) (models.FareBreakdown, int, bool) {
	return fare.AutoApply(seats, inst)
}

// Block validates, prices, and reserves. On success the order id is stored
// for the payment redirect and passengers go into the autocomplete history.
func (s BookingService) Block(ctx context.Context, sess *store.SessionState, user models.User, form BookingForm) (*upstream.BlockResponse, error) {
	if err := s.ValidateForm(form); err != nil {
		return nil, err
	}

	inst := sess.Discounts()
	breakdown := s.Quote(form, inst)

	req := upstream.BlockRequest{
		TripID:        form.TripID,
		Tier:          form.Tier,
		BoardingID:    form.BoardingID,
		DroppingID:    form.DroppingID,
		Passengers:    form.Passengers,
		CoinsApplied:  breakdown.CoinsApplied,
		CardApplied:   form.ApplyCard && breakdown.CardDiscount > 0,
		ExpectedTotal: breakdown.Total,
	}
	for _, seat := range form.Seats {
		req.SeatIDs = append(req.SeatIDs, seat.ID)
		req.SeatNumbers = append(req.SeatNumbers, seat.Number)
	}

	resp, err := sess.Client.BlockTicket(ctx, req)
	if err != nil {
		return nil, err
	}
	utils.LogEvent(s.RequestID, "booking", "block", "order_id="+resp.OrderID)

	if cache := s.Registry.Cache(); cache != nil {
		cache.SetCurrentOrder(ctx, sess.Key, resp.OrderID)
	}
	if s.Store != nil {
		if err := s.Store.AddRecentPassengers(ctx, user.ID, form.Passengers); err != nil {
			utils.LogEvent(s.RequestID, "booking", "history", "saving passengers failed: "+err.Error())
		}
	}
	return resp, nil
}

// RecentPassengers returns autocomplete suggestions for the booking form.
func (s BookingService) RecentPassengers(ctx context.Context, user models.User) ([]models.Passenger, error) {
	if s.Store == nil {
		return nil, nil
	}
	return s.Store.RecentPassengers(ctx, user.ID, 20)
}

// Cancel cancels the given seats on an order, translating known upstream
// failure texts into friendlier notices.
func (s BookingService) Cancel(ctx context.Context, sess *store.SessionState, orderID string, seatNumbers []string) (*upstream.CancelResponse, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.ValidationError{Field: "orderId", Msg: "order id is required"}
	}
	if len(seatNumbers) == 0 {
		return nil, domain.ValidationError{Field: "seatNumbers", Msg: "choose at least one seat to cancel"}
	}

	resp, err := sess.Client.CancelTicket(ctx, orderID, seatNumbers)
	if err != nil {
		if friendly := FriendlyCancelMessage(err.Error()); friendly != "" {
			return nil, domain.ConflictError{Resource: "ticket", Msg: friendly, Err: err}
		}
		return nil, err
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", "order_id="+orderID+" seats="+strings.Join(seatNumbers, ","))
	return resp, nil
}

// Known upstream failure texts and the notices shown for them.
var cancelNotices = []struct {
	marker string
	notice string
}{
	{"already cancelled", "This ticket has already been cancelled."},
	{"already canceled", "This ticket has already been cancelled."},
	{"departed", "This trip has already departed, so the ticket can no longer be cancelled."},
	{"cancellation window", "The cancellation window for this ticket has closed."},
	{"not found", "We couldn't find that ticket. It may have been cancelled already."},
}

// FriendlyCancelMessage maps a raw upstream failure to a user-facing notice,
// or "" when the text matches nothing we know.
func FriendlyCancelMessage(raw string) string {
	lower := strings.ToLower(raw)
	for _, n := range cancelNotices {
		if strings.Contains(lower, n.marker) {
			return n.notice
		}
	}
	return ""
}
