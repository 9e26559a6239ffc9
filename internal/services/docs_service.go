package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/phpdave11/gofpdf"
)

const hotelName = "Sixpoint Victoria"

// DocsService renders price quotes and booking invoices as PDF.
type DocsService struct {
	Pricing   PricingService
	Snapshots BookingSnapshots
	RequestID string
}

type invoiceData struct {
	Booking   models.Booking
	GuestName string
	Quote     models.PriceBreakdown
	Itemised  bool
}

func (s DocsService) GenerateQuote(ctx context.Context, req models.PriceRequest) ([]byte, string, error) {
	pricing := s.Pricing
	pricing.RequestID = s.RequestID
	quote, err := pricing.CalculatePrice(ctx, req)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_quote", fmt.Sprintf("rooms=%d nights=%d", len(quote.Breakdown.Rooms), quote.StayDetails.Nights))
	return buildQuotePDF(quote)
}

// GenerateInvoice itemises the booking from the lines stored when it was reserved,
// so later catalogue edits never show up on it. Lines that do not add up to the
// billed amount (bookings made before lines were stored) are left off and only
// the amount due is printed.
func (s DocsService) GenerateInvoice(ctx context.Context, b models.Booking, guestName string) ([]byte, string, error) {
	data, err := s.invoice(ctx, b, guestName)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%s itemised=%t", b.ID, data.Itemised))
	return buildInvoicePDF(data)
}

func (s DocsService) invoice(ctx context.Context, b models.Booking, guestName string) (invoiceData, error) {
	lines, err := s.Snapshots.SnapshotLines(ctx, b)
	if err != nil {
		utils.LogError(s.RequestID, "docs", "invoice_lines", err)
		return invoiceData{}, domain.Internal("failed to load invoice lines", err)
	}
	quote := snapshotBreakdown(b, lines)
	return invoiceData{
		Booking:   b,
		GuestName: guestName,
		Quote:     quote,
		Itemised:  len(lines.Rooms) > 0 && quote.Totals.Subtotal == b.Subtotal && quote.Totals.Total == b.TotalAmount,
	}, nil
}

// snapshotBreakdown totals stored lines with the tax frozen on the booking.
func snapshotBreakdown(b models.Booking, lines models.PriceLines) models.PriceBreakdown {
	var roomTotal, extrasTotal domain.Money
	for _, r := range lines.Rooms {
		roomTotal += r.Total
	}
	for _, e := range lines.ExtraServices {
		extrasTotal += e.Price
	}
	subtotal := roomTotal + extrasTotal
	return models.PriceBreakdown{
		Breakdown: lines,
		Totals: models.PriceTotals{
			RoomTotal:          roomTotal,
			ExtraServicesTotal: extrasTotal,
			Subtotal:           subtotal,
			TaxRate:            b.TaxRate,
			TaxAmount:          b.TaxAmount,
			Total:              subtotal + b.TaxAmount,
		},
		StayDetails: models.StayDetails{
			CheckIn:  utils.FormatISO(b.CheckIn),
			CheckOut: utils.FormatISO(b.CheckOut),
			Nights:   utils.Nights(b.CheckIn, b.CheckOut),
		},
	}
}

// document routes every text call through a cp1252 translator: the core
// Helvetica font cannot take raw UTF-8.
type document struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func (d document) Cell(w, h float64, txt string) {
	d.Fpdf.Cell(w, h, d.tr(txt))
}

func (d document) CellFormat(w, h float64, txt, border string, ln int, align string, fill bool, link int, linkStr string) {
	d.Fpdf.CellFormat(w, h, d.tr(txt), border, ln, align, fill, link, linkStr)
}

func (d document) MultiCell(w, h float64, txt, border, align string, fill bool) {
	d.Fpdf.MultiCell(w, h, d.tr(txt), border, align, fill)
}

func newDocument(title string) document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	d := document{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.SetTitle(title, true)
	d.SetAuthor(hotelName, true)
	d.AddPage()
	d.SetFont("Helvetica", "B", 18)
	d.Cell(0, 10, strings.ToUpper(title))
	d.Ln(8)
	d.SetFont("Helvetica", "", 10)
	d.Cell(0, 6, hotelName+" - Kisumu, Kenya")
	d.Ln(10)
	return d
}

func writeLines(pdf document, q models.PriceBreakdown) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rooms")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, r := range q.Breakdown.Rooms {
		pdf.Cell(120, 6, fmt.Sprintf("%d) %s  %s x %d night(s)", i+1, safe(r.Title, "-"), utils.FormatKES(int64(r.PricePerNight)), r.Nights))
		pdf.CellFormat(0, 6, utils.FormatKES(int64(r.Total)), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	if len(q.Breakdown.ExtraServices) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Extra services")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, e := range q.Breakdown.ExtraServices {
			pdf.Cell(120, 6, safe(e.Title, "-"))
			pdf.CellFormat(0, 6, utils.FormatKES(int64(e.Price)), "", 0, "R", false, 0, "")
			pdf.Ln(6)
		}
	}
	pdf.Ln(4)
	rows := []struct {
		label string
		value string
	}{
		{"Subtotal", utils.FormatKES(int64(q.Totals.Subtotal))},
		{"VAT (" + safe(q.Totals.TaxRate, "-") + ")", utils.FormatKES(int64(q.Totals.TaxAmount))},
	}
	for _, row := range rows {
		pdf.Cell(120, 6, row.label)
		pdf.CellFormat(0, 6, row.value, "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
}

func writeStay(pdf document, stay models.StayDetails) {
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Check-in  : %s", dateOnly(stay.CheckIn)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Check-out : %s", dateOnly(stay.CheckOut)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Nights    : %d", stay.Nights))
	pdf.Ln(10)
}

func output(pdf document) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildQuotePDF(q models.PriceBreakdown) ([]byte, string, error) {
	pdf := newDocument("Price Quote")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Issued   : "+utils.NowUTC().Format("2006-01-02 15:04")+" UTC")
	pdf.Ln(9)
	writeStay(pdf, q.StayDetails)
	writeLines(pdf, q)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "Total")
	pdf.CellFormat(0, 8, utils.FormatKES(int64(q.Totals.Total)), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This quote is indicative. Rooms are held only once a booking is confirmed.", "", "", false)

	b, err := output(pdf)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("QUOTE_%s_%dN.pdf", safeFilenamePart(dateOnly(q.StayDetails.CheckIn)), q.StayDetails.Nights)
	return b, filename, nil
}

func buildInvoicePDF(d invoiceData) ([]byte, string, error) {
	pdf := newDocument("Invoice")
	invNo := "INV-" + shortID(d.Booking.ID)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+utils.NowUTC().Format("2006-01-02 15:04")+" UTC")
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status     : "+string(d.Booking.Status))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Payment    : "+safe(string(d.Booking.PaymentMethod), string(models.PaymentNone)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, safe(d.GuestName, "-"))
	pdf.Ln(10)

	writeStay(pdf, d.Quote.StayDetails)
	if d.Itemised {
		writeLines(pdf, d.Quote)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "Amount due")
	pdf.CellFormat(0, 8, utils.FormatKES(int64(d.Booking.TotalAmount)), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	b, err := output(pdf)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s_%s.pdf", shortID(d.Booking.ID), safeFilenamePart(d.GuestName))
	return b, filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func shortID(id string) string {
	id = strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(id) > 8 {
		return id[:8]
	}
	return safeFilenamePart(id)
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
