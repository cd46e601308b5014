package handlers

import (
	"fmt"
	"net/http"
	"time"

	"estate_flow_go/db"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// expiryWindow returns the confirmation window from config
func expiryWindow(c echo.Context) time.Duration {
	if cfg := getConfig(c); cfg != nil {
		return time.Duration(cfg.ReservationExpiryHours) * time.Hour
	}
	return 48 * time.Hour
}

// AvailableSlotsHandler returns the free hourly visit slots for a property
// on a given day
func AvailableSlotsHandler(c echo.Context) error {
	date, err := services.ParseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slots, err := services.GetAvailableSlots(db.DB, c.Param("propertyId"), date, expiryWindow(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

// ReservationRequest is the visit reservation payload
type ReservationRequest struct {
	PropertyID  string  `json:"property_id" validate:"required"`
	ClientName  string  `json:"client_name" validate:"required"`
	ClientEmail string  `json:"client_email" validate:"required,email"`
	ClientPhone string  `json:"client_phone"`
	Type        string  `json:"type" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Time        string  `json:"time" validate:"required"`
	Notes       *string `json:"notes"`
}

func buildReservation(req *ReservationRequest) (*models.Reservation, error) {
	date, err := services.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	hour, minute, err := services.ParseSlotTime(req.Time)
	if err != nil {
		return nil, err
	}

	return &models.Reservation{
		PropertyID:  req.PropertyID,
		ClientName:  services.SanitizeText(req.ClientName),
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Type:        req.Type,
		MeetingDate: time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC),
		Notes:       req.Notes,
	}, nil
}

// CreateReservationHandler books a visit slot from the public site
func CreateReservationHandler(c echo.Context) error {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reservation, err := buildReservation(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := services.CreateReservation(db.DB, reservation, expiryWindow(c)); err != nil {
		return serviceError(err)
	}

	if cfg := getConfig(c); cfg != nil {
		property, perr := services.GetPropertyByID(db.DB, reservation.PropertyID)
		if perr == nil {
			data := services.ReservationEmailData{
				ClientName:    reservation.ClientName,
				PropertyTitle: property.Title,
				Date:          reservation.MeetingDate.Format("2006-01-02"),
				Time:          reservation.MeetingDate.Format("15:04"),
				AgencyName:    cfg.EmailFromName,
			}
			services.SendEmailAsync(cfg, services.BuildReservationConfirmationEmail(reservation.ClientEmail, data))

			if cfg.AgencyEmail != "" {
				services.SendEmailAsync(cfg, services.BuildAgencyNotificationEmail(cfg.AgencyEmail, services.AgencyNotificationData{
					Kind:          "visit request",
					ClientName:    reservation.ClientName,
					ClientEmail:   reservation.ClientEmail,
					ClientPhone:   reservation.ClientPhone,
					PropertyTitle: property.Title,
					Details:       fmt.Sprintf("Visit on %s at %s.", data.Date, data.Time),
				}))
			}
		}
	}

	return c.JSON(http.StatusCreated, reservation)
}

// AdminCreateReservationHandler books a visit on behalf of a client
func AdminCreateReservationHandler(c echo.Context) error {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reservation, err := buildReservation(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Visits booked by an agent are confirmed on the spot
	reservation.Status = models.ReservationStatusConfirmed

	if err := services.CreateReservation(db.DB, reservation, expiryWindow(c)); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, reservation)
}

// AdminListReservationsHandler returns reservations with optional filters
func AdminListReservationsHandler(c echo.Context) error {
	filters := services.ReservationFilters{
		PropertyID: c.QueryParam("property_id"),
		Status:     c.QueryParam("status"),
		Type:       c.QueryParam("type"),
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

	reservations, err := services.GetReservations(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load reservations")
	}
	return c.JSON(http.StatusOK, reservations)
}

// AdminGetReservationHandler returns a single reservation
func AdminGetReservationHandler(c echo.Context) error {
	reservation, err := services.GetReservationByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// UpdateReservationStatusHandler applies a status transition
func UpdateReservationStatusHandler(c echo.Context) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reservation, err := services.UpdateReservationStatus(db.DB, c.Param("id"), req.Status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// CancelReservationHandler cancels a visit
func CancelReservationHandler(c echo.Context) error {
	reservation, err := services.CancelReservation(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// DeleteReservationHandler removes a reservation permanently
func DeleteReservationHandler(c echo.Context) error {
	if err := services.DeleteReservation(db.DB, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReservationStatisticsHandler returns dashboard counters
func ReservationStatisticsHandler(c echo.Context) error {
	stats, err := services.GetReservationStatistics(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute statistics")
	}
	return c.JSON(http.StatusOK, stats)
}
