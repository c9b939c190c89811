package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"buschat/internal/domain"
	"buschat/internal/domain/models"
	"buschat/internal/store"
	"buschat/internal/utils"
)

// DocsService renders a confirmed ticket as a downloadable e-ticket PDF.
type DocsService struct {
	RequestID string
	// Loader fetches the summary for an order; wired to the upstream
	// client in production, stubbed in tests.
	Loader func(ctx context.Context, sess *store.SessionState, orderID string) (*models.TicketSummary, error)
}

func (s DocsService) GenerateETicket(ctx context.Context, sess *store.SessionState, orderID string) ([]byte, string, error) {
	if s.Loader == nil {
		return nil, "", domain.InternalError{Msg: "ticket loader not configured"}
	}
	ticket, err := s.Loader(ctx, sess, orderID)
	if err != nil {
		return nil, "", err
	}
	if ticket == nil {
		return nil, "", domain.NotFoundError{Resource: "ticket"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "order_id="+orderID)
	return buildETicketPDF(ticket)
}

func buildETicketPDF(t *models.TicketSummary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket No    : %s", safe(t.TicketNo, t.OrderID)),
		fmt.Sprintf("Status       : %s", safe(t.Status, "-")),
		fmt.Sprintf("Route        : %s -> %s", safe(t.Origin, "-"), safe(t.Destination, "-")),
		fmt.Sprintf("Date         : %s", safe(t.TravelDate, "-")),
		fmt.Sprintf("Departure    : %s", safe(utils.FormatClock(t.StartTime), "-")),
		fmt.Sprintf("Boarding     : %s", safe(t.Boarding, "-")),
		fmt.Sprintf("Dropping     : %s", safe(t.Dropping, "-")),
		fmt.Sprintf("Seats        : %s", safe(strings.Join(t.SeatNumbers, ", "), "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(t.Passengers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Passengers")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, p := range t.Passengers {
			seat := "-"
			if i < len(t.SeatNumbers) {
				seat = t.SeatNumbers[i]
			}
			pdf.Cell(0, 6, fmt.Sprintf("%d. %s (%d, %s) - seat %s", i+1, p.Name, p.Age, p.Gender, seat))
			pdf.Ln(6)
		}
	}

	if t.Fare != nil {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Fare")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, "Base fare : "+utils.FormatINR(t.Fare.Base))
		pdf.Ln(6)
		pdf.Cell(0, 6, "Tax       : "+utils.FormatINR(t.Fare.Tax))
		pdf.Ln(6)
		if t.Fare.CardDiscount > 0 {
			pdf.Cell(0, 6, "Card      : -"+utils.FormatINR(t.Fare.CardDiscount))
			pdf.Ln(6)
		}
		if t.Fare.CoinDiscount > 0 {
			pdf.Cell(0, 6, "Coins     : -"+utils.FormatINR(t.Fare.CoinDiscount))
			pdf.Ln(6)
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Total     : "+utils.FormatINR(t.Fare.Total))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid ID and show this e-ticket while boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(safe(t.TicketNo, t.OrderID)))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
