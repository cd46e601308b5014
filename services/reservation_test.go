package services

import (
	"sync"
	"testing"
	"time"

	"estate_flow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const testExpiryWindow = 48 * time.Hour

func seedAvailability(t *testing.T, db *gorm.DB) {
	assert.NoError(t, SeedDefaultAvailability(db))
}

func newReservation(propertyID string, meeting time.Time) *models.Reservation {
	return &models.Reservation{
		PropertyID:  propertyID,
		ClientName:  "Jean Martin",
		ClientEmail: "jean@example.com",
		Type:        models.ReservationTypeSale,
		MeetingDate: meeting,
	}
}

func TestGetAvailableSlots(t *testing.T) {
	t.Run("Default weekday grid", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		slots, err := GetAvailableSlots(database, property.ID, monday, testExpiryWindow)
		assert.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}, slots)
	})

	t.Run("Reserved slot disappears from the grid", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 14, 0, 0, 0, time.UTC)
		assert.NoError(t, CreateReservation(database, newReservation(property.ID, meeting), testExpiryWindow))

		slots, err := GetAvailableSlots(database, property.ID, monday, testExpiryWindow)
		assert.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "15:00", "16:00"}, slots)
	})

	t.Run("No windows on Sunday", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		slots, err := GetAvailableSlots(database, property.ID, nextWeekday(time.Sunday), testExpiryWindow)
		assert.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("Whole day block empties the grid", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		assert.NoError(t, database.Create(&models.UnavailableDate{
			PropertyID: property.ID, Date: monday, Reason: "Owner visit",
		}).Error)

		slots, err := GetAvailableSlots(database, property.ID, monday, testExpiryWindow)
		assert.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("Timed block removes a single slot", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		blocked := "10:00"
		assert.NoError(t, database.Create(&models.UnavailableDate{
			PropertyID: property.ID, Date: monday, Reason: "Keys unavailable", BlockedTime: &blocked,
		}).Error)

		slots, err := GetAvailableSlots(database, property.ID, monday, testExpiryWindow)
		assert.NoError(t, err)
		assert.Equal(t, []string{"09:00", "11:00", "12:00", "14:00", "15:00", "16:00"}, slots)
	})

	t.Run("Cancelled reservation frees its slot", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 9, 0, 0, 0, time.UTC)
		reservation := newReservation(property.ID, meeting)
		assert.NoError(t, CreateReservation(database, reservation, testExpiryWindow))

		_, err := CancelReservation(database, reservation.ID)
		assert.NoError(t, err)

		slots, err := GetAvailableSlots(database, property.ID, monday, testExpiryWindow)
		assert.NoError(t, err)
		assert.Contains(t, slots, "09:00")
	})

	t.Run("Overdue pending reservation frees its slot lazily", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 11, 0, 0, 0, time.UTC)
		reservation := newReservation(property.ID, meeting)
		assert.NoError(t, CreateReservation(database, reservation, testExpiryWindow))

		// Age the reservation past the confirmation window without running the sweep
		stale := time.Now().Add(-testExpiryWindow - time.Hour)
		assert.NoError(t, database.Model(reservation).Update("created_at", stale).Error)

		slots, err := GetAvailableSlots(database, property.ID, monday, testExpiryWindow)
		assert.NoError(t, err)
		assert.Contains(t, slots, "11:00")
	})

	t.Run("Unknown property", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		_, err := GetAvailableSlots(database, "missing", nextWeekday(time.Monday), testExpiryWindow)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateReservation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC)
		reservation := newReservation(property.ID, meeting)
		assert.NoError(t, CreateReservation(database, reservation, testExpiryWindow))
		assert.Equal(t, models.ReservationStatusPending, reservation.Status)
	})

	t.Run("Taken slot is rejected", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC)
		assert.NoError(t, CreateReservation(database, newReservation(property.ID, meeting), testExpiryWindow))

		err := CreateReservation(database, newReservation(property.ID, meeting), testExpiryWindow)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Slot outside the grid is rejected", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		// 13:00 falls in the lunch gap between the two windows
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 13, 0, 0, 0, time.UTC)
		err := CreateReservation(database, newReservation(property.ID, meeting), testExpiryWindow)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Invalid visit type", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		reservation := newReservation(property.ID, time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC))
		reservation.Type = "timeshare"
		assert.ErrorIs(t, CreateReservation(database, reservation, testExpiryWindow), ErrValidation)
	})

	t.Run("Seasonal listing does not accept visits", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC)
		assert.ErrorIs(t, CreateReservation(database, newReservation(property.ID, meeting), testExpiryWindow), ErrValidation)
	})

	t.Run("Past meeting date is rejected", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		err := CreateReservation(database, newReservation(property.ID, time.Now().Add(-24*time.Hour)), testExpiryWindow)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Concurrent requests admit exactly one", func(t *testing.T) {
		database := setupTestDB(t)
		seedAvailability(t, database)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		monday := nextWeekday(time.Monday)
		meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = CreateReservation(database, newReservation(property.ID, meeting), testExpiryWindow)
			}(i)
		}
		wg.Wait()

		successes := 0
		conflicts := 0
		for _, err := range errs {
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, ErrConflict) {
				conflicts++
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)

		var count int64
		database.Model(&models.Reservation{}).Where("property_id = ?", property.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestReservationStatusTransitions(t *testing.T) {
	database := setupTestDB(t)
	seedAvailability(t, database)
	property := createTestProperty(t, database, models.PropertyTypeSale)

	monday := nextWeekday(time.Monday)
	meeting := time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC)
	reservation := newReservation(property.ID, meeting)
	assert.NoError(t, CreateReservation(database, reservation, testExpiryWindow))

	// A pending visit cannot jump straight to completed
	_, err := UpdateReservationStatus(database, reservation.ID, models.ReservationStatusCompleted)
	assert.ErrorIs(t, err, ErrValidation)

	confirmed, err := UpdateReservationStatus(database, reservation.ID, models.ReservationStatusConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)

	// Expiry only applies to pending visits
	_, err = UpdateReservationStatus(database, reservation.ID, models.ReservationStatusExpired)
	assert.ErrorIs(t, err, ErrValidation)

	cancelled, err := CancelReservation(database, reservation.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	// Cancelling again is a no-op
	again, err := CancelReservation(database, reservation.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, again.Status)

	// Terminal statuses cannot be left
	_, err = UpdateReservationStatus(database, reservation.ID, models.ReservationStatusConfirmed)
	assert.ErrorIs(t, err, ErrValidation)

	// Invalid status names are rejected
	_, err = UpdateReservationStatus(database, reservation.ID, "archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExpireStaleReservations(t *testing.T) {
	database := setupTestDB(t)
	seedAvailability(t, database)
	property := createTestProperty(t, database, models.PropertyTypeSale)

	monday := nextWeekday(time.Monday)
	stale := newReservation(property.ID, time.Date(monday.Year(), monday.Month(), monday.Day(), 9, 0, 0, 0, time.UTC))
	assert.NoError(t, CreateReservation(database, stale, testExpiryWindow))

	fresh := newReservation(property.ID, time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC))
	assert.NoError(t, CreateReservation(database, fresh, testExpiryWindow))

	confirmed := newReservation(property.ID, time.Date(monday.Year(), monday.Month(), monday.Day(), 11, 0, 0, 0, time.UTC))
	assert.NoError(t, CreateReservation(database, confirmed, testExpiryWindow))
	_, err := UpdateReservationStatus(database, confirmed.ID, models.ReservationStatusConfirmed)
	assert.NoError(t, err)

	// Age the stale and the confirmed one past the window
	cutoff := time.Now().Add(-testExpiryWindow - time.Hour)
	assert.NoError(t, database.Model(&models.Reservation{}).
		Where("id IN ?", []string{stale.ID, confirmed.ID}).
		Update("created_at", cutoff).Error)

	n, err := ExpireStaleReservations(database, testExpiryWindow)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var check models.Reservation
	assert.NoError(t, database.First(&check, "id = ?", stale.ID).Error)
	assert.Equal(t, models.ReservationStatusExpired, check.Status)

	// Confirmed and fresh pending reservations are untouched
	check = models.Reservation{}
	assert.NoError(t, database.First(&check, "id = ?", confirmed.ID).Error)
	assert.Equal(t, models.ReservationStatusConfirmed, check.Status)
	check = models.Reservation{}
	assert.NoError(t, database.First(&check, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, check.Status)
}

func TestGetReservationStatistics(t *testing.T) {
	database := setupTestDB(t)
	seedAvailability(t, database)
	property := createTestProperty(t, database, models.PropertyTypeSale)

	monday := nextWeekday(time.Monday)
	pending := newReservation(property.ID, time.Date(monday.Year(), monday.Month(), monday.Day(), 9, 0, 0, 0, time.UTC))
	assert.NoError(t, CreateReservation(database, pending, testExpiryWindow))

	confirmed := newReservation(property.ID, time.Date(monday.Year(), monday.Month(), monday.Day(), 10, 0, 0, 0, time.UTC))
	assert.NoError(t, CreateReservation(database, confirmed, testExpiryWindow))
	_, err := UpdateReservationStatus(database, confirmed.ID, models.ReservationStatusConfirmed)
	assert.NoError(t, err)

	stats, err := GetReservationStatistics(database)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(2), stats.Upcoming)
}
