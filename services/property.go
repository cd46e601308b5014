package services

import (
	"errors"
	"fmt"
	"strings"

	"estate_flow_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// sanitizer strips all markup from user-provided text fields
var sanitizer = bluemonday.StrictPolicy()

// SanitizeText removes any HTML from user input
func SanitizeText(s string) string {
	return strings.TrimSpace(sanitizer.Sanitize(s))
}

// PropertyFilters narrows down the property list
type PropertyFilters struct {
	Type       string
	Location   string
	OnlyActive bool
}

// GetProperties fetches properties with optional filters, newest first
func GetProperties(db *gorm.DB, filters PropertyFilters) ([]models.Property, error) {
	var properties []models.Property
	query := db.Model(&models.Property{})

	if filters.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Location != "" {
		query = query.Where("location LIKE ?", "%"+filters.Location+"%")
	}

	err := query.Order("created_at desc").Find(&properties).Error
	return properties, err
}

// GetPropertyByID fetches a single property
func GetPropertyByID(db *gorm.DB, id string) (*models.Property, error) {
	var property models.Property
	err := db.First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &property, nil
}

// CreateProperty validates and persists a new listing
func CreateProperty(db *gorm.DB, property *models.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	property.Title = SanitizeText(property.Title)
	property.Location = SanitizeText(property.Location)
	property.Description = SanitizeText(property.Description)

	return db.Create(property).Error
}

// UpdateProperty validates and saves changes to a listing
func UpdateProperty(db *gorm.DB, property *models.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	property.Title = SanitizeText(property.Title)
	property.Location = SanitizeText(property.Location)
	property.Description = SanitizeText(property.Description)

	return db.Save(property).Error
}

func validateProperty(property *models.Property) error {
	if strings.TrimSpace(property.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.IsValidPropertyType(property.Type) {
		return fmt.Errorf("%w: invalid property type %q", ErrValidation, property.Type)
	}
	return nil
}

// TogglePropertyActive flips the published flag and returns the new state
func TogglePropertyActive(db *gorm.DB, id string) (*models.Property, error) {
	property, err := GetPropertyByID(db, id)
	if err != nil {
		return nil, err
	}

	property.IsActive = !property.IsActive
	if err := db.Model(property).Update("is_active", property.IsActive).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty soft deletes a listing. Listings with upcoming stays or
// visits cannot be removed.
func DeleteProperty(db *gorm.DB, id string) error {
	property, err := GetPropertyByID(db, id)
	if err != nil {
		return err
	}

	var bookingCount int64
	if err := db.Model(&models.Booking{}).
		Where("property_id = ? AND status != ?", id, models.BookingStatusCancelled).
		Count(&bookingCount).Error; err != nil {
		return err
	}
	if bookingCount > 0 {
		return fmt.Errorf("%w: property has active bookings", ErrValidation)
	}

	var reservationCount int64
	if err := db.Model(&models.Reservation{}).
		Where("property_id = ? AND status IN (?, ?)",
			id, models.ReservationStatusPending, models.ReservationStatusConfirmed).
		Count(&reservationCount).Error; err != nil {
		return err
	}
	if reservationCount > 0 {
		return fmt.Errorf("%w: property has upcoming visits", ErrValidation)
	}

	return db.Delete(property).Error
}

// AddPropertyImage appends an uploaded image URL to the listing. The first
// image becomes the cover.
func AddPropertyImage(db *gorm.DB, property *models.Property, url string) error {
	property.Images = append(property.Images, url)
	if property.Image == "" {
		property.Image = url
	}
	return db.Save(property).Error
}

// RemovePropertyImage removes an image URL from the listing
func RemovePropertyImage(db *gorm.DB, property *models.Property, url string) error {
	images := make([]string, 0, len(property.Images))
	for _, img := range property.Images {
		if img != url {
			images = append(images, img)
		}
	}
	if len(images) == len(property.Images) {
		return fmt.Errorf("%w: image not found on property", ErrNotFound)
	}

	property.Images = images
	if property.Image == url {
		property.Image = ""
		if len(images) > 0 {
			property.Image = images[0]
		}
	}
	return db.Save(property).Error
}
