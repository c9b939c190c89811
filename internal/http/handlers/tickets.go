package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"buschat/internal/domain/models"
	"buschat/internal/http/middleware"
	"buschat/internal/services"
	"buschat/internal/store"
	"buschat/internal/utils"
)

func (a *API) bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Registry:  a.Registry,
		Store:     a.Store,
		RequestID: middleware.GetRequestID(c),
	}
}

func (a *API) paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Registry:  a.Registry,
		Attempts:  a.PaymentAttempts,
		Delay:     a.PaymentDelay,
		RequestID: middleware.GetRequestID(c),
	}
}

// POST /api/tickets/quote
//
// Recomputes the fare server-side from the submitted form and the discount
// instruments remembered from the conversation, so the client never prices
// its own booking.
func (a *API) Quote(c *gin.Context) {
	var form services.BookingForm
	if !BindJSONOrError(c, &form) {
		return
	}
	sess := middleware.SessionState(c)
	if _, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess); err != nil {
		RespondDomainError(c, err)
		return
	}
	svc := a.bookingService(c)
	if err := svc.ValidateForm(form); err != nil {
		RespondDomainError(c, err)
		return
	}
	breakdown := svc.Quote(form, sess.Discounts())
	c.JSON(http.StatusOK, gin.H{"fare": breakdown})
}

// POST /api/tickets/block
func (a *API) BlockTicket(c *gin.Context) {
	var form services.BookingForm
	if !BindJSONOrError(c, &form) {
		return
	}
	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	resp, err := a.bookingService(c).Block(c.Request.Context(), sess, *user, form)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": resp})
}

// GET /api/tickets/:id/confirm-payment
func (a *API) ConfirmPayment(c *gin.Context) {
	sess := middleware.SessionState(c)
	if _, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess); err != nil {
		RespondDomainError(c, err)
		return
	}
	status, err := a.paymentService(c).AwaitConfirmation(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": status})
}

// GET /api/tickets/:id/details
func (a *API) TicketDetails(c *gin.Context) {
	sess := middleware.SessionState(c)
	if _, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess); err != nil {
		RespondDomainError(c, err)
		return
	}
	ticket, err := sess.Client.WithRequestID(middleware.GetRequestID(c)).TicketDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GET /api/tickets/:id/e-ticket
func (a *API) ETicket(c *gin.Context) {
	sess := middleware.SessionState(c)
	if _, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess); err != nil {
		RespondDomainError(c, err)
		return
	}
	requestID := middleware.GetRequestID(c)
	svc := services.DocsService{
		RequestID: requestID,
		Loader: func(ctx context.Context, s *store.SessionState, orderID string) (*models.TicketSummary, error) {
			return s.Client.WithRequestID(requestID).TicketDetails(ctx, orderID)
		},
	}
	pdf, filename, err := svc.GenerateETicket(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// POST /api/tickets/:id/cancel
func (a *API) CancelTicket(c *gin.Context) {
	var req struct {
		SeatNumbers []string `json:"seatNumbers"`
		Seats       string   `json:"seats"`
	}
	if !BindJSONOrError(c, &req) {
		return
	}
	sess := middleware.SessionState(c)
	if _, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess); err != nil {
		RespondDomainError(c, err)
		return
	}
	seats := req.SeatNumbers
	if len(seats) == 0 && strings.TrimSpace(req.Seats) != "" {
		seats = utils.SplitSeatList(req.Seats)
	}
	resp, err := a.bookingService(c).Cancel(c.Request.Context(), sess, c.Param("id"), seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancellation": resp})
}

// GET /api/passengers/recent
func (a *API) RecentPassengers(c *gin.Context) {
	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	passengers, err := a.bookingService(c).RecentPassengers(c.Request.Context(), *user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passengers": passengers})
}

// GET /api/payment/callback?order_id=
//
// The payment page lands back here; the handler reports the recorded
// handoff status and, when the order id is missing, falls back to the
// session's current order.
func (a *API) PaymentCallback(c *gin.Context) {
	sess := middleware.SessionState(c)
	svc := a.paymentService(c)

	orderID := strings.TrimSpace(c.Query("order_id"))
	if orderID == "" {
		if current, ok := svc.CurrentOrder(c.Request.Context(), sess.Key); ok {
			orderID = current
		}
	}
	if orderID == "" {
		RespondError(c, http.StatusBadRequest, "order_id is required", nil)
		return
	}

	status, ok := svc.Handoff(c.Request.Context(), orderID)
	if !ok {
		status = services.PaymentPending
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": status})
}
