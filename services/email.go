package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"estate_flow_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// SendEmailAsync sends an email asynchronously using a goroutine
// This is the recommended method for sending emails in handlers to avoid blocking HTTP responses
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// renderEmailTemplate executes an inline template for both bodies
func renderEmailTemplate(name, tmpl string, data interface{}) string {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		log.Printf("Error parsing %s email template: %v", name, err)
		return ""
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Printf("Error rendering %s email template: %v", name, err)
		return ""
	}
	return buf.String()
}

// BookingEmailData contains data for the booking emails
type BookingEmailData struct {
	ClientName    string
	PropertyTitle string
	StartDate     string
	EndDate       string
	Nights        int
	Guests        int
	AgencyName    string
}

const bookingConfirmationHTML = `
<h2>Booking request received</h2>
<p>Hello {{.ClientName}},</p>
<p>We have received your booking request for <strong>{{.PropertyTitle}}</strong>.</p>
<ul>
  <li>Arrival: {{.StartDate}}</li>
  <li>Departure: {{.EndDate}}</li>
  <li>Nights: {{.Nights}}</li>
  <li>Guests: {{.Guests}}</li>
</ul>
<p>Our team will confirm your stay shortly.</p>
<p>{{.AgencyName}}</p>`

const bookingConfirmationText = `Hello {{.ClientName}},

We have received your booking request for {{.PropertyTitle}}.

Arrival: {{.StartDate}}
Departure: {{.EndDate}}
Nights: {{.Nights}}
Guests: {{.Guests}}

Our team will confirm your stay shortly.

{{.AgencyName}}`

// BuildBookingConfirmationEmail creates the acknowledgement email sent to the
// client right after a booking request
func BuildBookingConfirmationEmail(clientEmail string, data BookingEmailData) *Email {
	return &Email{
		To:       []string{clientEmail},
		Subject:  fmt.Sprintf("Booking request for %s", data.PropertyTitle),
		HTMLBody: renderEmailTemplate("booking_confirmation_html", bookingConfirmationHTML, data),
		TextBody: renderEmailTemplate("booking_confirmation_text", bookingConfirmationText, data),
	}
}

const bookingCancelledHTML = `
<h2>Booking cancelled</h2>
<p>Hello {{.ClientName}},</p>
<p>Your booking for <strong>{{.PropertyTitle}}</strong> from {{.StartDate}} to {{.EndDate}} has been cancelled.</p>
<p>The dates are available again. Feel free to book another stay.</p>
<p>{{.AgencyName}}</p>`

const bookingCancelledText = `Hello {{.ClientName}},

Your booking for {{.PropertyTitle}} from {{.StartDate}} to {{.EndDate}} has been cancelled.

The dates are available again. Feel free to book another stay.

{{.AgencyName}}`

// BuildBookingCancelledEmail creates the cancellation notice for the client
func BuildBookingCancelledEmail(clientEmail string, data BookingEmailData) *Email {
	return &Email{
		To:       []string{clientEmail},
		Subject:  fmt.Sprintf("Booking cancelled for %s", data.PropertyTitle),
		HTMLBody: renderEmailTemplate("booking_cancelled_html", bookingCancelledHTML, data),
		TextBody: renderEmailTemplate("booking_cancelled_text", bookingCancelledText, data),
	}
}

// ReservationEmailData contains data for the visit reservation emails
type ReservationEmailData struct {
	ClientName    string
	PropertyTitle string
	Date          string
	Time          string
	AgencyName    string
}

const reservationConfirmationHTML = `
<h2>Visit request received</h2>
<p>Hello {{.ClientName}},</p>
<p>Your visit request for <strong>{{.PropertyTitle}}</strong> on {{.Date}} at {{.Time}} has been registered.</p>
<p>An agent will confirm the appointment shortly.</p>
<p>{{.AgencyName}}</p>`

const reservationConfirmationText = `Hello {{.ClientName}},

Your visit request for {{.PropertyTitle}} on {{.Date}} at {{.Time}} has been registered.

An agent will confirm the appointment shortly.

{{.AgencyName}}`

// BuildReservationConfirmationEmail creates the acknowledgement email for a
// new visit reservation
func BuildReservationConfirmationEmail(clientEmail string, data ReservationEmailData) *Email {
	return &Email{
		To:       []string{clientEmail},
		Subject:  fmt.Sprintf("Visit request for %s", data.PropertyTitle),
		HTMLBody: renderEmailTemplate("reservation_confirmation_html", reservationConfirmationHTML, data),
		TextBody: renderEmailTemplate("reservation_confirmation_text", reservationConfirmationText, data),
	}
}

// AgencyNotificationData contains data for internal notification emails
type AgencyNotificationData struct {
	Kind          string
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	PropertyTitle string
	Details       string
}

const agencyNotificationText = `New {{.Kind}} received.

Client: {{.ClientName}}
Email: {{.ClientEmail}}
Phone: {{.ClientPhone}}
Property: {{.PropertyTitle}}

{{.Details}}`

// BuildAgencyNotificationEmail creates the internal email sent to the agency
// inbox when a booking, visit or contact request comes in
func BuildAgencyNotificationEmail(agencyEmail string, data AgencyNotificationData) *Email {
	return &Email{
		To:       []string{agencyEmail},
		Subject:  fmt.Sprintf("New %s from %s", data.Kind, data.ClientName),
		TextBody: renderEmailTemplate("agency_notification_text", agencyNotificationText, data),
	}
}
