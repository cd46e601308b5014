package handlers

import (
	"net/http"

	"estate_flow_go/db"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// PropertyRequest is the create/update payload for a listing
type PropertyRequest struct {
	Title       string   `json:"title" validate:"required"`
	Price       string   `json:"price"`
	Location    string   `json:"location" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Description string   `json:"description"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Area        int      `json:"area" validate:"gte=0"`
	Features    []string `json:"features"`
	IsActive    *bool    `json:"is_active"`
}

// ListPropertiesHandler returns published listings for the public site
func ListPropertiesHandler(c echo.Context) error {
	filters := services.PropertyFilters{
		Type:       c.QueryParam("type"),
		Location:   c.QueryParam("location"),
		OnlyActive: true,
	}

	properties, err := services.GetProperties(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load properties")
	}
	return c.JSON(http.StatusOK, properties)
}

// GetPropertyHandler returns a single published listing
func GetPropertyHandler(c echo.Context) error {
	property, err := services.GetPropertyByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	if !property.IsActive {
		return echo.NewHTTPError(http.StatusNotFound, "Property not found")
	}
	return c.JSON(http.StatusOK, property)
}

// AdminListPropertiesHandler returns all listings including unpublished ones
func AdminListPropertiesHandler(c echo.Context) error {
	filters := services.PropertyFilters{
		Type:     c.QueryParam("type"),
		Location: c.QueryParam("location"),
	}

	properties, err := services.GetProperties(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load properties")
	}
	return c.JSON(http.StatusOK, properties)
}

// AdminGetPropertyHandler returns a single listing regardless of state
func AdminGetPropertyHandler(c echo.Context) error {
	property, err := services.GetPropertyByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, property)
}

// CreatePropertyHandler creates a new listing
func CreatePropertyHandler(c echo.Context) error {
	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	property := &models.Property{
		Title:       req.Title,
		Price:       req.Price,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
		Bedrooms:    req.Bedrooms,
		Area:        req.Area,
		Features:    req.Features,
		IsActive:    true,
	}
	if req.IsActive != nil {
		property.IsActive = *req.IsActive
	}

	if err := services.CreateProperty(db.DB, property); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, property)
}

// UpdatePropertyHandler edits an existing listing
func UpdatePropertyHandler(c echo.Context) error {
	property, err := services.GetPropertyByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	property.Title = req.Title
	property.Price = req.Price
	property.Location = req.Location
	property.Type = req.Type
	property.Description = req.Description
	property.Bedrooms = req.Bedrooms
	property.Area = req.Area
	property.Features = req.Features
	if req.IsActive != nil {
		property.IsActive = *req.IsActive
	}

	if err := services.UpdateProperty(db.DB, property); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, property)
}

// TogglePropertyHandler flips the published flag
func TogglePropertyHandler(c echo.Context) error {
	property, err := services.TogglePropertyActive(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, property)
}

// DeletePropertyHandler removes a listing
func DeletePropertyHandler(c echo.Context) error {
	if err := services.DeleteProperty(db.DB, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadPropertyImageHandler stores an uploaded photo and attaches it
func UploadPropertyImageHandler(c echo.Context) error {
	property, err := services.GetPropertyByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}

	key := services.GeneratePropertyImageKey(property.ID, file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
	}

	if err := services.AddPropertyImage(db.DB, property, result.URL); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to attach image")
	}
	return c.JSON(http.StatusCreated, property)
}

// DeletePropertyImageHandler detaches a photo from the listing
func DeletePropertyImageHandler(c echo.Context) error {
	property, err := services.GetPropertyByID(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	var req struct {
		URL string `json:"url" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := services.RemovePropertyImage(db.DB, property, req.URL); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, property)
}

// UnavailableDateView is the calendar entry served to clients: the ISO date
// plus the blocked slot when only a single visit hour is unavailable. The id
// lets the back office remove manual blocks.
type UnavailableDateView struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	BlockedTime *string `json:"blocked_time,omitempty"`
}

// GetUnavailableDatesHandler returns the blocked calendar for a property
func GetUnavailableDatesHandler(c echo.Context) error {
	propertyID := c.Param("id")
	if _, err := services.GetPropertyByID(db.DB, propertyID); err != nil {
		return serviceError(err)
	}

	dates, err := services.GetUnavailableDates(db.DB, propertyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load unavailable dates")
	}

	views := make([]UnavailableDateView, 0, len(dates))
	for _, d := range dates {
		views = append(views, UnavailableDateView{
			ID:          d.ID,
			Date:        d.Date.Format("2006-01-02"),
			BlockedTime: d.BlockedTime,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// UnavailableDateRequest is the payload for a manual calendar block
type UnavailableDateRequest struct {
	Date        string  `json:"date" validate:"required"`
	Reason      string  `json:"reason"`
	BlockedTime *string `json:"blocked_time"`
}

// CreateUnavailableDateHandler blocks a day or a single visit slot
func CreateUnavailableDateHandler(c echo.Context) error {
	var req UnavailableDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := services.ParseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	block := &models.UnavailableDate{
		PropertyID:  c.Param("id"),
		Date:        date,
		Reason:      req.Reason,
		BlockedTime: req.BlockedTime,
	}

	if err := services.CreateUnavailableDate(db.DB, block); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, block)
}

// DeleteUnavailableDateHandler removes a manual calendar block
func DeleteUnavailableDateHandler(c echo.Context) error {
	if err := services.DeleteUnavailableDate(db.DB, c.Param("dateId")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
