package services

import (
	"errors"
	"fmt"
	"time"

	"estate_flow_go/models"

	"gorm.io/gorm"
)

// Default visiting hours: Mon-Fri, 9:00-13:00 and 14:00-17:00
var defaultAvailabilitySlots = []struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}{
	// Monday (1)
	{1, "09:00", "13:00"},
	{1, "14:00", "17:00"},
	// Tuesday (2)
	{2, "09:00", "13:00"},
	{2, "14:00", "17:00"},
	// Wednesday (3)
	{3, "09:00", "13:00"},
	{3, "14:00", "17:00"},
	// Thursday (4)
	{4, "09:00", "13:00"},
	{4, "14:00", "17:00"},
	// Friday (5)
	{5, "09:00", "13:00"},
	{5, "14:00", "17:00"},
}

// SeedDefaultAvailability creates the standard visiting hours when none exist
func SeedDefaultAvailability(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Availability{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, slot := range defaultAvailabilitySlots {
		availability := &models.Availability{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			IsActive:  true,
		}
		if err := db.Create(availability).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetAvailabilities fetches all weekly availability windows
func GetAvailabilities(db *gorm.DB) ([]models.Availability, error) {
	var slots []models.Availability
	err := db.Order("day_of_week, start_time").Find(&slots).Error
	return slots, err
}

// GetAvailabilityByID fetches a single availability window
func GetAvailabilityByID(db *gorm.DB, id string) (*models.Availability, error) {
	var slot models.Availability
	err := db.First(&slot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: availability %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &slot, nil
}

// CreateAvailability adds a new weekly window after validating it
func CreateAvailability(db *gorm.DB, slot *models.Availability) error {
	if err := validateAvailabilityWindow(slot); err != nil {
		return err
	}

	overlaps, err := CheckAvailabilityOverlap(db, slot.DayOfWeek, slot.StartTime, slot.EndTime, "")
	if err != nil {
		return err
	}
	if overlaps {
		return fmt.Errorf("%w: window overlaps an existing one", ErrConflict)
	}

	return db.Create(slot).Error
}

// UpdateAvailability updates an existing weekly window
func UpdateAvailability(db *gorm.DB, slot *models.Availability) error {
	if err := validateAvailabilityWindow(slot); err != nil {
		return err
	}

	overlaps, err := CheckAvailabilityOverlap(db, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.ID)
	if err != nil {
		return err
	}
	if overlaps {
		return fmt.Errorf("%w: window overlaps an existing one", ErrConflict)
	}

	return db.Save(slot).Error
}

// DeleteAvailability removes a weekly window
func DeleteAvailability(db *gorm.DB, id string) error {
	result := db.Delete(&models.Availability{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: availability %s", ErrNotFound, id)
	}
	return nil
}

func validateAvailabilityWindow(slot *models.Availability) error {
	if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week must be between 0 and 6", ErrValidation)
	}
	startH, startM, err := ParseSlotTime(slot.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	endH, endM, err := ParseSlotTime(slot.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if endH*60+endM <= startH*60+startM {
		return fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	return nil
}

// CheckAvailabilityOverlap checks if a new or updated window overlaps with existing ones
func CheckAvailabilityOverlap(db *gorm.DB, dayOfWeek int, startTime, endTime string, excludeSlotID string) (bool, error) {
	var count int64
	query := db.Model(&models.Availability{}).
		Where("day_of_week = ? AND is_active = ?", dayOfWeek, true).
		Where("start_time < ? AND end_time > ?", endTime, startTime)

	if excludeSlotID != "" {
		query = query.Where("id != ?", excludeSlotID)
	}

	err := query.Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUnavailableDates fetches future calendar blocks for a property. Both
// manual blocks and rows materialized from bookings are returned, oldest
// first, so the public calendar can grey them out.
func GetUnavailableDates(db *gorm.DB, propertyID string) ([]models.UnavailableDate, error) {
	var dates []models.UnavailableDate
	err := db.Where("property_id = ? AND date >= ?", propertyID, DateOnly(time.Now())).
		Order("date asc").
		Find(&dates).Error
	return dates, err
}

// GetUnavailableDatesInRange fetches blocks for a property inside a window
func GetUnavailableDatesInRange(db *gorm.DB, propertyID string, from, to time.Time) ([]models.UnavailableDate, error) {
	var dates []models.UnavailableDate
	err := db.Where("property_id = ? AND date >= ? AND date <= ?", propertyID, from, to).
		Order("date asc").
		Find(&dates).Error
	return dates, err
}

// CreateUnavailableDate adds a manual block for a property. Duplicate blocks
// for the same day and slot are rejected.
func CreateUnavailableDate(db *gorm.DB, block *models.UnavailableDate) error {
	block.Date = DateOnly(block.Date)

	var property models.Property
	if err := db.First(&property, "id = ?", block.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: property %s", ErrNotFound, block.PropertyID)
		}
		return err
	}

	if block.BlockedTime != nil {
		if _, _, err := ParseSlotTime(*block.BlockedTime); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	var count int64
	query := db.Model(&models.UnavailableDate{}).
		Where("property_id = ? AND date = ?", block.PropertyID, block.Date)
	if block.BlockedTime == nil {
		query = query.Where("blocked_time IS NULL")
	} else {
		query = query.Where("blocked_time = ?", *block.BlockedTime)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: date already blocked", ErrConflict)
	}

	return db.Create(block).Error
}

// DeleteUnavailableDate removes a manual block. Rows materialized from a
// booking cannot be removed directly, the booking must be cancelled instead.
func DeleteUnavailableDate(db *gorm.DB, id string) error {
	var block models.UnavailableDate
	if err := db.First(&block, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unavailable date %s", ErrNotFound, id)
		}
		return err
	}

	if block.BookingID != nil {
		return fmt.Errorf("%w: date is held by a booking, cancel the booking instead", ErrValidation)
	}

	return db.Delete(&block).Error
}
