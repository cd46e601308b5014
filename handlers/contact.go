package handlers

import (
	"net/http"

	"estate_flow_go/db"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// ContactRequest is the public contact form payload
type ContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	ProjectType  string `json:"project_type" validate:"required"`
	PropertyKind string `json:"property_kind"`
	Rooms        string `json:"rooms"`
	SurfaceMin   *int   `json:"surface_min"`
	SurfaceMax   *int   `json:"surface_max"`
	BudgetMin    *int   `json:"budget_min"`
	BudgetMax    *int   `json:"budget_max"`
	Location     string `json:"location"`
	Timeline     string `json:"timeline"`
	Message      string `json:"message"`
}

// CreateContactHandler captures a lead from the public contact form
func CreateContactHandler(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact := &models.Contact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		ProjectType:  req.ProjectType,
		PropertyKind: req.PropertyKind,
		Rooms:        req.Rooms,
		SurfaceMin:   req.SurfaceMin,
		SurfaceMax:   req.SurfaceMax,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Location:     req.Location,
		Timeline:     req.Timeline,
		Message:      req.Message,
	}

	if err := services.CreateContact(db.DB, contact); err != nil {
		return serviceError(err)
	}

	if cfg := getConfig(c); cfg != nil && cfg.AgencyEmail != "" {
		services.SendEmailAsync(cfg, services.BuildAgencyNotificationEmail(cfg.AgencyEmail, services.AgencyNotificationData{
			Kind:        "contact request",
			ClientName:  contact.Name,
			ClientEmail: contact.Email,
			ClientPhone: contact.Phone,
			Details:     contact.Message,
		}))
	}

	return c.JSON(http.StatusCreated, contact)
}

// AdminListContactsHandler returns captured leads
func AdminListContactsHandler(c echo.Context) error {
	contacts, err := services.GetContacts(db.DB, c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contacts")
	}
	return c.JSON(http.StatusOK, contacts)
}

// UpdateContactStatusHandler moves a lead through the follow-up pipeline
func UpdateContactStatusHandler(c echo.Context) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact, err := services.UpdateContactStatus(db.DB, c.Param("id"), req.Status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, contact)
}

// DeleteContactHandler removes a lead
func DeleteContactHandler(c echo.Context) error {
	if err := services.DeleteContact(db.DB, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
