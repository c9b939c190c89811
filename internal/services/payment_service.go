package services

import (
	"context"
	"strings"
	"time"

	"buschat/internal/domain"
	"buschat/internal/store"
	"buschat/internal/upstream"
	"buschat/internal/utils"
)

// Payment handoff states mirrored into the cache across the redirect.
const (
	PaymentPending   = "PENDING"
	PaymentConfirmed = "CONFIRMED"
	PaymentFailed    = "FAILED"
)

// PaymentService polls payment confirmation with a fixed, small retry
// budget. Nothing here cancels the underlying order; an exhausted budget
// just reports PENDING and lets the user retry.
type PaymentService struct {
	Registry  *store.Registry
	Attempts  int
	Delay     time.Duration
	RequestID string
}

func (s PaymentService) attempts() int {
	if s.Attempts > 0 {
		return s.Attempts
	}
	return 3
}

func (s PaymentService) delay() time.Duration {
	if s.Delay > 0 {
		return s.Delay
	}
	return 2 * time.Second
}

// AwaitConfirmation polls the order until it settles or the budget runs
// out, mirroring the outcome into the handoff cache either way.
func (s PaymentService) AwaitConfirmation(ctx context.Context, sess *store.SessionState, orderID string) (*upstream.PaymentStatus, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.ValidationError{Field: "orderId", Msg: "order id is required"}
	}

	var last *upstream.PaymentStatus
	for attempt := 1; attempt <= s.attempts(); attempt++ {
		status, err := sess.Client.ConfirmPayment(ctx, orderID)
		if err != nil {
			if domain.IsSessionExpired(err) {
				return nil, err
			}
			utils.LogEvent(s.RequestID, "payment", "poll", "attempt failed: "+err.Error())
		} else {
			last = status
			if settled(status.Status) {
				s.record(ctx, orderID, status.Status)
				return status, nil
			}
		}

		if attempt < s.attempts() {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-time.After(s.delay()):
			}
		}
	}

	if last == nil {
		return nil, domain.UpstreamError{Op: "confirm_payment", Message: "payment status unavailable"}
	}
	s.record(ctx, orderID, PaymentPending)
	return last, nil
}

// Handoff reads the status written across the payment redirect.
func (s PaymentService) Handoff(ctx context.Context, orderID string) (string, bool) {
	cache := s.Registry.Cache()
	if cache == nil {
		return "", false
	}
	return cache.GetPayment(ctx, orderID)
}

// CurrentOrder returns the order id stored when the booking was blocked.
func (s PaymentService) CurrentOrder(ctx context.Context, sessionKey string) (string, bool) {
	cache := s.Registry.Cache()
	if cache == nil {
		return "", false
	}
	return cache.GetCurrentOrder(ctx, sessionKey)
}

func (s PaymentService) record(ctx context.Context, orderID, status string) {
	if cache := s.Registry.Cache(); cache != nil {
		cache.SetPayment(ctx, orderID, status)
	}
	utils.LogEvent(s.RequestID, "payment", "status", "order_id="+orderID+" status="+status)
}

func settled(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case PaymentConfirmed, PaymentFailed, "CANCELLED":
		return true
	default:
		return false
	}
}
