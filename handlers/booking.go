package handlers

import (
	"fmt"
	"net/http"

	"estate_flow_go/config"
	"estate_flow_go/db"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// getConfig pulls the app config injected by the server middleware
func getConfig(c echo.Context) *config.Config {
	cfg, _ := c.Get("config").(*config.Config)
	return cfg
}

// BookingRequest is the public booking payload
type BookingRequest struct {
	PropertyID  string  `json:"property_id" validate:"required"`
	ClientName  string  `json:"client_name" validate:"required"`
	ClientEmail string  `json:"client_email" validate:"required,email"`
	ClientPhone *string `json:"client_phone"`
	StartDate   string  `json:"start_date" validate:"required"`
	EndDate     string  `json:"end_date" validate:"required"`
	Guests      int     `json:"guests" validate:"gte=1"`
	Notes       *string `json:"notes"`
}

// CreateBookingHandler books a stay from the public site
func CreateBookingHandler(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startDate, err := services.ParseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	endDate, err := services.ParseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking := &models.Booking{
		PropertyID:  req.PropertyID,
		ClientName:  services.SanitizeText(req.ClientName),
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		StartDate:   startDate,
		EndDate:     endDate,
		Guests:      req.Guests,
		Notes:       req.Notes,
	}

	if err := services.CreateBooking(db.DB, booking); err != nil {
		return serviceError(err)
	}

	if cfg := getConfig(c); cfg != nil {
		property, err := services.GetPropertyByID(db.DB, booking.PropertyID)
		if err == nil {
			data := services.BookingEmailData{
				ClientName:    booking.ClientName,
				PropertyTitle: property.Title,
				StartDate:     booking.StartDate.Format("2006-01-02"),
				EndDate:       booking.EndDate.Format("2006-01-02"),
				Nights:        booking.Nights(),
				Guests:        booking.Guests,
				AgencyName:    cfg.EmailFromName,
			}
			services.SendEmailAsync(cfg, services.BuildBookingConfirmationEmail(booking.ClientEmail, data))

			if cfg.AgencyEmail != "" {
				phone := ""
				if booking.ClientPhone != nil {
					phone = *booking.ClientPhone
				}
				services.SendEmailAsync(cfg, services.BuildAgencyNotificationEmail(cfg.AgencyEmail, services.AgencyNotificationData{
					Kind:          "booking",
					ClientName:    booking.ClientName,
					ClientEmail:   booking.ClientEmail,
					ClientPhone:   phone,
					PropertyTitle: property.Title,
					Details:       fmt.Sprintf("Stay from %s to %s, %d guests.", data.StartDate, data.EndDate, booking.Guests),
				}))
			}
		}
	}

	return c.JSON(http.StatusCreated, booking)
}

// AdminListBookingsHandler returns bookings with optional filters
func AdminListBookingsHandler(c echo.Context) error {
	filters := services.BookingFilters{
		PropertyID: c.QueryParam("property_id"),
		Status:     c.QueryParam("status"),
	}
	if from := c.QueryParam("from"); from != "" {
		d, err := services.ParseDate(from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.FromDate = &d
	}
	if to := c.QueryParam("to"); to != "" {
		d, err := services.ParseDate(to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.ToDate = &d
	}

	bookings, err := services.GetBookings(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// AdminGetBookingHandler returns a single booking
func AdminGetBookingHandler(c echo.Context) error {
	booking, err := services.GetBookingByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// BookingUpdateRequest is the admin edit payload
type BookingUpdateRequest struct {
	ClientName  *string `json:"client_name"`
	ClientEmail *string `json:"client_email" validate:"omitempty,email"`
	ClientPhone *string `json:"client_phone"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Guests      *int    `json:"guests" validate:"omitempty,gte=1"`
	Notes       *string `json:"notes"`
}

// UpdateBookingHandler edits a booking, rescheduling when dates change
func UpdateBookingHandler(c echo.Context) error {
	booking, err := services.GetBookingByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	var req BookingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.ClientName != nil {
		booking.ClientName = services.SanitizeText(*req.ClientName)
	}
	if req.ClientEmail != nil {
		booking.ClientEmail = *req.ClientEmail
	}
	if req.ClientPhone != nil {
		booking.ClientPhone = req.ClientPhone
	}
	if req.Guests != nil {
		booking.Guests = *req.Guests
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	newStart := booking.StartDate
	newEnd := booking.EndDate
	if req.StartDate != nil {
		newStart, err = services.ParseDate(*req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if req.EndDate != nil {
		newEnd, err = services.ParseDate(*req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if err := services.UpdateBooking(db.DB, booking, newStart, newEnd); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// CancelBookingHandler cancels a booking and frees its dates
func CancelBookingHandler(c echo.Context) error {
	booking, err := services.CancelBooking(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	if cfg := getConfig(c); cfg != nil {
		property, perr := services.GetPropertyByID(db.DB, booking.PropertyID)
		if perr == nil {
			data := services.BookingEmailData{
				ClientName:    booking.ClientName,
				PropertyTitle: property.Title,
				StartDate:     booking.StartDate.Format("2006-01-02"),
				EndDate:       booking.EndDate.Format("2006-01-02"),
				Nights:        booking.Nights(),
				Guests:        booking.Guests,
				AgencyName:    cfg.EmailFromName,
			}
			services.SendEmailAsync(cfg, services.BuildBookingCancelledEmail(booking.ClientEmail, data))
		}
	}

	return c.JSON(http.StatusOK, booking)
}

// ConfirmBookingHandler confirms a pending booking
func ConfirmBookingHandler(c echo.Context) error {
	booking, err := services.ConfirmBooking(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// DeleteBookingHandler removes a booking permanently
func DeleteBookingHandler(c echo.Context) error {
	if err := services.DeleteBooking(db.DB, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BookingConfirmationPDFHandler streams the printable confirmation document
func BookingConfirmationPDFHandler(c echo.Context) error {
	booking, err := services.GetBookingByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	agencyName := "Agence Immo"
	if cfg := getConfig(c); cfg != nil {
		agencyName = cfg.EmailFromName
	}

	pdf, err := services.GenerateBookingConfirmationPDF(booking, agencyName)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="booking-%s.pdf"`, booking.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
