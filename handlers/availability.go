package handlers

import (
	"net/http"

	"estate_flow_go/db"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// AvailabilityRequest is the payload for a weekly visiting window
type AvailabilityRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsActive  *bool  `json:"is_active"`
}

// ListAvailabilitiesHandler returns the weekly visiting hours
func ListAvailabilitiesHandler(c echo.Context) error {
	slots, err := services.GetAvailabilities(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load availability")
	}
	return c.JSON(http.StatusOK, slots)
}

// CreateAvailabilityHandler adds a weekly visiting window
func CreateAvailabilityHandler(c echo.Context) error {
	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slot := &models.Availability{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if err := services.CreateAvailability(db.DB, slot); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, slot)
}

// UpdateAvailabilityHandler edits a weekly visiting window
func UpdateAvailabilityHandler(c echo.Context) error {
	slot, err := services.GetAvailabilityByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slot.DayOfWeek = req.DayOfWeek
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if err := services.UpdateAvailability(db.DB, slot); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, slot)
}

// DeleteAvailabilityHandler removes a weekly visiting window
func DeleteAvailabilityHandler(c echo.Context) error {
	if err := services.DeleteAvailability(db.DB, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
