package upstream

import (
	"context"
	"net/http"

	"buschat/internal/domain/models"
)

// BlockRequest reserves seats on a trip ahead of payment. Passengers bind to
// SeatNumbers by position.
type BlockRequest struct {
	TripID        int64              `json:"tripID"`
	Tier          string             `json:"tier"`
	BoardingID    int64              `json:"boardingPointId"`
	DroppingID    int64              `json:"droppingPointId"`
	SeatIDs       []int64            `json:"seatIds"`
	SeatNumbers   []string           `json:"seatNumbers"`
	Passengers    []models.Passenger `json:"passengers"`
	CoinsApplied  int                `json:"coinsApplied"`
	CardApplied   bool               `json:"cardApplied"`
	ExpectedTotal float64            `json:"expectedTotal"`
}

// BlockResponse carries the order handle the payment flow polls on.
type BlockResponse struct {
	OrderID    string  `json:"orderId"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	PaymentURL string  `json:"paymentUrl,omitempty"`
}

// BlockTicket reserves the seats and opens an order.
func (c *Client) BlockTicket(ctx context.Context, req BlockRequest) (*BlockResponse, error) {
	var resp BlockResponse
	if err := c.do(ctx, http.MethodPost, "/api/tickets/block", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PaymentStatus is one poll of the payment confirmation endpoint.
type PaymentStatus struct {
	OrderID string                `json:"orderId"`
	Status  string                `json:"status"`
	Ticket  *models.TicketSummary `json:"ticket,omitempty"`
}

// ConfirmPayment asks whether the order's payment landed.
func (c *Client) ConfirmPayment(ctx context.Context, orderID string) (*PaymentStatus, error) {
	var resp PaymentStatus
	if err := c.do(ctx, http.MethodGet, "/api/tickets/"+orderID+"/confirm_payment", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID == "" {
		resp.OrderID = orderID
	}
	return &resp, nil
}

// TicketDetails fetches the full summary for a confirmed order.
func (c *Client) TicketDetails(ctx context.Context, orderID string) (*models.TicketSummary, error) {
	var resp struct {
		Ticket *models.TicketSummary `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tickets/"+orderID+"/ticket_details", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Ticket, nil
}

type cancelRequest struct {
	SeatNumbers []string `json:"seatNumbers"`
}

// CancelResponse reports the outcome of a seat-wise cancellation.
type CancelResponse struct {
	OrderID  string   `json:"orderId"`
	Status   string   `json:"status"`
	Refund   float64  `json:"refundAmount"`
	Message  string   `json:"message,omitempty"`
	Remained []string `json:"remainingSeats,omitempty"`
}

// CancelTicket cancels the given seats on an order.
func (c *Client) CancelTicket(ctx context.Context, orderID string, seatNumbers []string) (*CancelResponse, error) {
	var resp CancelResponse
	if err := c.do(ctx, http.MethodPost, "/api/tickets/"+orderID+"/cancel", nil, cancelRequest{SeatNumbers: seatNumbers}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
