package services

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"strings"

	"estate_flow_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns default options for booking documents
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "letter":
		paperWidth = 8.5
		paperHeight = 11.0
	default: // A4
		paperWidth = 8.27
		paperHeight = 11.69
	}

	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

const bookingPDFTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; color: #222; }
  h1 { font-size: 20px; border-bottom: 2px solid #2c5282; padding-bottom: 8px; }
  .ref { color: #666; font-size: 11px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  td { padding: 6px 8px; border-bottom: 1px solid #e2e8f0; font-size: 13px; }
  td.label { width: 35%; color: #555; }
  .footer { margin-top: 40px; font-size: 11px; color: #888; }
</style>
</head>
<body>
  <h1>{{.AgencyName}} - Booking Confirmation</h1>
  <p class="ref">Reference: {{.Booking.ID}}</p>
  <table>
    <tr><td class="label">Property</td><td>{{.Booking.Property.Title}}</td></tr>
    <tr><td class="label">Location</td><td>{{.Booking.Property.Location}}</td></tr>
    <tr><td class="label">Client</td><td>{{.Booking.ClientName}}</td></tr>
    <tr><td class="label">Email</td><td>{{.Booking.ClientEmail}}</td></tr>
    <tr><td class="label">Arrival</td><td>{{.StartDate}}</td></tr>
    <tr><td class="label">Departure</td><td>{{.EndDate}}</td></tr>
    <tr><td class="label">Nights</td><td>{{.Nights}}</td></tr>
    <tr><td class="label">Guests</td><td>{{.Booking.Guests}}</td></tr>
    <tr><td class="label">Status</td><td>{{.Booking.Status}}</td></tr>
  </table>
  <p class="footer">Generated on {{.GeneratedAt}}. This document confirms the reservation of the property for the dates above.</p>
</body>
</html>`

// BuildBookingConfirmationHTML renders the printable confirmation document
// for a booking. The booking must have its Property preloaded.
func BuildBookingConfirmationHTML(booking *models.Booking, agencyName string) (string, error) {
	tmpl, err := template.New("booking_pdf").Parse(bookingPDFTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse booking PDF template: %w", err)
	}

	data := struct {
		Booking     *models.Booking
		AgencyName  string
		StartDate   string
		EndDate     string
		Nights      int
		GeneratedAt string
	}{
		Booking:     booking,
		AgencyName:  agencyName,
		StartDate:   booking.StartDate.Format("January 2, 2006"),
		EndDate:     booking.EndDate.Format("January 2, 2006"),
		Nights:      booking.Nights(),
		GeneratedAt: booking.UpdatedAt.Format("January 2, 2006 15:04"),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render booking PDF template: %w", err)
	}
	return sb.String(), nil
}

// GenerateBookingConfirmationPDF renders the booking confirmation as a PDF
func GenerateBookingConfirmationPDF(booking *models.Booking, agencyName string) ([]byte, error) {
	html, err := BuildBookingConfirmationHTML(booking, agencyName)
	if err != nil {
		return nil, err
	}
	return GeneratePDF(html, DefaultPDFOptions())
}
