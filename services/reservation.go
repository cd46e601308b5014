package services

import (
	"errors"
	"fmt"
	"time"

	"estate_flow_go/models"

	"gorm.io/gorm"
)

// GetAvailableSlots computes the free hourly visit slots for a property on a
// given day. Slots come from the weekly availability windows, minus calendar
// blocks and reservations that still hold their slot.
func GetAvailableSlots(db *gorm.DB, propertyID string, date time.Time, expiryWindow time.Duration) ([]string, error) {
	date = DateOnly(date)

	var property models.Property
	if err := db.First(&property, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyID)
		}
		return nil, err
	}

	slots, err := slotsForDay(db, date)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return []string{}, nil
	}

	// Calendar blocks: a whole-day block empties the grid, a timed block
	// removes its single slot.
	var blocks []models.UnavailableDate
	if err := db.Where("property_id = ? AND date = ?", propertyID, date).
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	for _, block := range blocks {
		if block.IsWholeDay() {
			return []string{}, nil
		}
	}

	// Reservations on that day that still occupy their hour.
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)
	var reservations []models.Reservation
	if err := db.Where("property_id = ? AND meeting_date >= ? AND meeting_date < ? AND status NOT IN (?, ?)",
		propertyID, dayStart, dayEnd,
		models.ReservationStatusCancelled, models.ReservationStatusExpired).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	available := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slotTaken(slot, blocks, reservations, now, expiryWindow) {
			continue
		}
		available = append(available, slot)
	}
	return available, nil
}

// slotsForDay expands the active weekly windows for the date's weekday into
// hourly "HH:MM" labels. Each window yields slots on the hour in
// [start, end), so a 14:00-17:00 window gives 14:00, 15:00 and 16:00.
func slotsForDay(db *gorm.DB, date time.Time) ([]string, error) {
	var windows []models.Availability
	err := db.Where("day_of_week = ? AND is_active = ?", int(date.Weekday()), true).
		Order("start_time").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}

	var slots []string
	for _, w := range windows {
		startH, startM, err := ParseSlotTime(w.StartTime)
		if err != nil {
			continue
		}
		endH, endM, err := ParseSlotTime(w.EndTime)
		if err != nil {
			continue
		}

		// First slot on the hour at or after the window start. A slot is
		// kept only when the full hour fits inside the window.
		h := startH
		if startM > 0 {
			h++
		}
		endMinutes := endH*60 + endM
		for ; h*60+60 <= endMinutes; h++ {
			slots = append(slots, fmt.Sprintf("%02d:00", h))
		}
	}
	return slots, nil
}

func slotTaken(slot string, blocks []models.UnavailableDate, reservations []models.Reservation, now time.Time, expiryWindow time.Duration) bool {
	for _, block := range blocks {
		if block.BlocksSlot(slot) {
			return true
		}
	}
	for _, r := range reservations {
		if r.MeetingDate.Format("15:04") == slot && r.Occupies(now, expiryWindow) {
			return true
		}
	}
	return false
}

// CreateReservation books a visit slot for a property. The slot must come
// from the availability grid and be free, checked again inside the
// transaction under the per-property lock.
func CreateReservation(db *gorm.DB, reservation *models.Reservation, expiryWindow time.Duration) error {
	if !models.IsValidReservationType(reservation.Type) {
		return fmt.Errorf("%w: invalid visit type %q", ErrValidation, reservation.Type)
	}

	var property models.Property
	if err := db.First(&property, "id = ?", reservation.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: property %s", ErrNotFound, reservation.PropertyID)
		}
		return err
	}
	if !property.IsActive {
		return fmt.Errorf("%w: property is not published", ErrValidation)
	}
	if !property.AcceptsVisits() {
		return fmt.Errorf("%w: property does not accept visits", ErrValidation)
	}

	// Visits run at hour granularity in UTC.
	m := reservation.MeetingDate.UTC()
	reservation.MeetingDate = time.Date(m.Year(), m.Month(), m.Day(), m.Hour(), 0, 0, 0, time.UTC)

	if reservation.MeetingDate.Before(time.Now()) {
		return fmt.Errorf("%w: meeting date is in the past", ErrValidation)
	}

	unlock := lockProperty(reservation.PropertyID)
	defer unlock()

	return withTransaction(db, func(tx *gorm.DB) error {
		slots, err := GetAvailableSlots(tx, reservation.PropertyID, reservation.MeetingDate, expiryWindow)
		if err != nil {
			return err
		}

		requested := reservation.MeetingDate.Format("15:04")
		free := false
		for _, slot := range slots {
			if slot == requested {
				free = true
				break
			}
		}
		if !free {
			return fmt.Errorf("%w: slot %s is not available", ErrConflict, requested)
		}

		if reservation.Status == "" {
			reservation.Status = models.ReservationStatusPending
		}
		return tx.Create(reservation).Error
	})
}

// ReservationFilters narrows down the admin reservation list
type ReservationFilters struct {
	PropertyID string
	Status     string
	Type       string
	FromDate   *time.Time
	ToDate     *time.Time
}

// GetReservations fetches reservations with optional filters, soonest visit first
func GetReservations(db *gorm.DB, filters ReservationFilters) ([]models.Reservation, error) {
	var reservations []models.Reservation
	query := db.Preload("Property")

	if filters.PropertyID != "" {
		query = query.Where("property_id = ?", filters.PropertyID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.FromDate != nil {
		query = query.Where("meeting_date >= ?", *filters.FromDate)
	}
	if filters.ToDate != nil {
		query = query.Where("meeting_date <= ?", *filters.ToDate)
	}

	err := query.Order("meeting_date asc").Find(&reservations).Error
	return reservations, err
}

// GetReservationByID fetches a single reservation with its property
func GetReservationByID(db *gorm.DB, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := db.Preload("Property").First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &reservation, nil
}

// UpdateReservationStatus applies a status transition. Terminal statuses
// cannot be left again.
func UpdateReservationStatus(db *gorm.DB, id string, status string) (*models.Reservation, error) {
	if !models.IsValidReservationStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	reservation, err := GetReservationByID(db, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status == status {
		return reservation, nil
	}
	if models.IsTerminalReservationStatus(reservation.Status) {
		return nil, fmt.Errorf("%w: reservation is already %s", ErrValidation, reservation.Status)
	}
	if !models.CanTransitionReservationStatus(reservation.Status, status) {
		return nil, fmt.Errorf("%w: cannot move a %s reservation to %s",
			ErrValidation, reservation.Status, status)
	}

	reservation.Status = status
	if status == models.ReservationStatusCancelled {
		now := time.Now()
		reservation.CancelledAt = &now
	}

	if err := db.Save(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// CancelReservation cancels a visit. Cancelling twice is a no-op.
func CancelReservation(db *gorm.DB, id string) (*models.Reservation, error) {
	reservation, err := GetReservationByID(db, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status == models.ReservationStatusCancelled {
		return reservation, nil
	}
	if !reservation.IsCancellable() {
		return nil, fmt.Errorf("%w: reservation is %s", ErrValidation, reservation.Status)
	}

	now := time.Now()
	reservation.Status = models.ReservationStatusCancelled
	reservation.CancelledAt = &now
	if err := db.Save(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// DeleteReservation removes a reservation permanently
func DeleteReservation(db *gorm.DB, id string) error {
	result := db.Unscoped().Delete(&models.Reservation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: reservation %s", ErrNotFound, id)
	}
	return nil
}

// ExpireStaleReservations flips pending reservations past the confirmation
// window to expired. Run from the scheduler, returns how many rows changed.
func ExpireStaleReservations(db *gorm.DB, expiryWindow time.Duration) (int64, error) {
	cutoff := time.Now().Add(-expiryWindow)
	result := db.Model(&models.Reservation{}).
		Where("status = ? AND created_at < ?", models.ReservationStatusPending, cutoff).
		Update("status", models.ReservationStatusExpired)
	return result.RowsAffected, result.Error
}

// CompletePastReservations flips confirmed reservations whose visit time has
// passed to completed.
func CompletePastReservations(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Reservation{}).
		Where("status = ? AND meeting_date < ?", models.ReservationStatusConfirmed, time.Now()).
		Update("status", models.ReservationStatusCompleted)
	return result.RowsAffected, result.Error
}

// ReservationStatistics aggregates counts for the admin dashboard
type ReservationStatistics struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Expired   int64 `json:"expired"`
	Completed int64 `json:"completed"`
	Upcoming  int64 `json:"upcoming"`
}

// GetReservationStatistics computes dashboard counters
func GetReservationStatistics(db *gorm.DB) (*ReservationStatistics, error) {
	stats := &ReservationStatistics{}

	if err := db.Model(&models.Reservation{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	byStatus := map[string]*int64{
		models.ReservationStatusPending:   &stats.Pending,
		models.ReservationStatusConfirmed: &stats.Confirmed,
		models.ReservationStatusCancelled: &stats.Cancelled,
		models.ReservationStatusExpired:   &stats.Expired,
		models.ReservationStatusCompleted: &stats.Completed,
	}
	for status, dest := range byStatus {
		if err := db.Model(&models.Reservation{}).
			Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}

	err := db.Model(&models.Reservation{}).
		Where("status IN (?, ?) AND meeting_date >= ?",
			models.ReservationStatusPending, models.ReservationStatusConfirmed, time.Now()).
		Count(&stats.Upcoming).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
