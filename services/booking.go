package services

import (
	"errors"
	"fmt"
	"time"

	"estate_flow_go/models"

	"gorm.io/gorm"
)

// RangesOverlap reports whether two date ranges share at least one day.
// Ranges are closed intervals: touching endpoints count as an overlap, so a
// stay ending on the 10th conflicts with one starting on the 10th.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// CheckBookingConflict returns the active bookings and manual blocks that
// collide with the given range. Cancelled bookings never count.
func CheckBookingConflict(db *gorm.DB, propertyID string, startDate, endDate time.Time, excludeBookingID string) ([]models.Booking, []models.UnavailableDate, error) {
	var bookings []models.Booking
	query := db.Where("property_id = ? AND status != ? AND start_date <= ? AND end_date >= ?",
		propertyID, models.BookingStatusCancelled, endDate, startDate)
	if excludeBookingID != "" {
		query = query.Where("id != ?", excludeBookingID)
	}
	if err := query.Find(&bookings).Error; err != nil {
		return nil, nil, err
	}

	// Manual whole-day blocks inside the range. Rows materialized from the
	// excluded booking are skipped so reschedules do not collide with
	// themselves.
	var blocks []models.UnavailableDate
	blockQuery := db.Where("property_id = ? AND blocked_time IS NULL AND date >= ? AND date <= ?",
		propertyID, startDate, endDate)
	if excludeBookingID != "" {
		blockQuery = blockQuery.Where("booking_id IS NULL OR booking_id != ?", excludeBookingID)
	}
	if err := blockQuery.Find(&blocks).Error; err != nil {
		return nil, nil, err
	}

	return bookings, blocks, nil
}

// CreateBooking validates the requested stay, checks for conflicts and
// persists the booking together with one unavailable-date row per night, all
// inside a single transaction. Returns ErrConflict when the range is taken.
func CreateBooking(db *gorm.DB, booking *models.Booking) error {
	booking.StartDate = DateOnly(booking.StartDate)
	booking.EndDate = DateOnly(booking.EndDate)

	if booking.EndDate.Before(booking.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrValidation)
	}
	if booking.StartDate.Before(DateOnly(time.Now())) {
		return fmt.Errorf("%w: start date is in the past", ErrValidation)
	}

	var property models.Property
	if err := db.First(&property, "id = ?", booking.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: property %s", ErrNotFound, booking.PropertyID)
		}
		return err
	}
	if !property.IsActive {
		return fmt.Errorf("%w: property is not published", ErrValidation)
	}
	if !property.IsBookable() {
		return fmt.Errorf("%w: property does not accept stays", ErrValidation)
	}

	unlock := lockProperty(booking.PropertyID)
	defer unlock()

	return withTransaction(db, func(tx *gorm.DB) error {
		// Re-check inside the transaction: another request may have won the
		// race between the handler-level check and this point.
		bookings, blocks, err := CheckBookingConflict(tx, booking.PropertyID, booking.StartDate, booking.EndDate, "")
		if err != nil {
			return err
		}
		if len(bookings) > 0 || len(blocks) > 0 {
			return fmt.Errorf("%w: %s to %s", ErrConflict,
				booking.StartDate.Format("2006-01-02"), booking.EndDate.Format("2006-01-02"))
		}

		if booking.Status == "" {
			booking.Status = models.BookingStatusPending
		}
		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		// Materialize one row per day of the stay so the public calendar can
		// be served with a single indexed query.
		for d := booking.StartDate; !d.After(booking.EndDate); d = d.AddDate(0, 0, 1) {
			row := &models.UnavailableDate{
				PropertyID: booking.PropertyID,
				Date:       d,
				Reason:     models.UnavailableReasonBooked,
				BookingID:  &booking.ID,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// CancelBooking marks a booking cancelled and frees its dates. Cancelling an
// already cancelled booking is a no-op.
func CancelBooking(db *gorm.DB, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, err
	}

	if booking.Status == models.BookingStatusCancelled {
		return &booking, nil
	}

	err := withTransaction(db, func(tx *gorm.DB) error {
		now := time.Now()
		booking.Status = models.BookingStatusCancelled
		booking.CancelledAt = &now
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		// Drop the materialized rows so the calendar frees up immediately.
		return tx.Where("booking_id = ?", booking.ID).
			Delete(&models.UnavailableDate{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// ConfirmBooking moves a pending booking to confirmed
func ConfirmBooking(db *gorm.DB, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, err
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: booking is cancelled", ErrValidation)
	}
	if booking.Status == models.BookingStatusConfirmed {
		return &booking, nil
	}

	booking.Status = models.BookingStatusConfirmed
	if err := db.Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// BookingFilters narrows down the admin booking list
type BookingFilters struct {
	PropertyID string
	Status     string
	FromDate   *time.Time
	ToDate     *time.Time
}

// GetBookings fetches bookings with optional filters, newest first
func GetBookings(db *gorm.DB, filters BookingFilters) ([]models.Booking, error) {
	var bookings []models.Booking
	query := db.Preload("Property")

	if filters.PropertyID != "" {
		query = query.Where("property_id = ?", filters.PropertyID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.FromDate != nil {
		query = query.Where("end_date >= ?", *filters.FromDate)
	}
	if filters.ToDate != nil {
		query = query.Where("start_date <= ?", *filters.ToDate)
	}

	err := query.Order("created_at desc").Find(&bookings).Error
	return bookings, err
}

// GetBookingByID fetches a single booking with its property
func GetBookingByID(db *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Property").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking edits the contact fields and dates of a booking. A date
// change re-runs the conflict check and rebuilds the materialized rows.
func UpdateBooking(db *gorm.DB, booking *models.Booking, newStart, newEnd time.Time) error {
	newStart = DateOnly(newStart)
	newEnd = DateOnly(newEnd)

	if newEnd.Before(newStart) {
		return fmt.Errorf("%w: end date is before start date", ErrValidation)
	}

	datesChanged := !booking.StartDate.Equal(newStart) || !booking.EndDate.Equal(newEnd)
	if !datesChanged {
		return db.Save(booking).Error
	}

	unlock := lockProperty(booking.PropertyID)
	defer unlock()

	return withTransaction(db, func(tx *gorm.DB) error {
		bookings, blocks, err := CheckBookingConflict(tx, booking.PropertyID, newStart, newEnd, booking.ID)
		if err != nil {
			return err
		}
		if len(bookings) > 0 || len(blocks) > 0 {
			return fmt.Errorf("%w: %s to %s", ErrConflict,
				newStart.Format("2006-01-02"), newEnd.Format("2006-01-02"))
		}

		booking.StartDate = newStart
		booking.EndDate = newEnd
		if err := tx.Save(booking).Error; err != nil {
			return err
		}

		if err := tx.Where("booking_id = ?", booking.ID).
			Delete(&models.UnavailableDate{}).Error; err != nil {
			return err
		}
		if booking.Status == models.BookingStatusCancelled {
			return nil
		}
		for d := newStart; !d.After(newEnd); d = d.AddDate(0, 0, 1) {
			row := &models.UnavailableDate{
				PropertyID: booking.PropertyID,
				Date:       d,
				Reason:     models.UnavailableReasonBooked,
				BookingID:  &booking.ID,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteBooking removes a booking and its materialized dates permanently
func DeleteBooking(db *gorm.DB, id string) error {
	return withTransaction(db, func(tx *gorm.DB) error {
		result := tx.Unscoped().Delete(&models.Booking{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: booking %s", ErrNotFound, id)
		}
		return tx.Where("booking_id = ?", id).
			Delete(&models.UnavailableDate{}).Error
	})
}
