package services

import (
	"sync"
	"testing"
	"time"

	"estate_flow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRangesOverlap(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 9, n, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		aStart   int
		aEnd     int
		bStart   int
		bEnd     int
		expected bool
	}{
		{"disjoint before", 1, 5, 10, 15, false},
		{"disjoint after", 10, 15, 1, 5, false},
		{"full containment", 1, 20, 5, 10, true},
		{"partial overlap", 1, 10, 5, 15, true},
		{"identical ranges", 3, 7, 3, 7, true},
		{"touching endpoints conflict", 1, 10, 10, 15, true},
		{"touching at start conflicts", 10, 15, 5, 10, true},
		{"single day inside range", 5, 5, 1, 10, true},
		{"single day outside range", 12, 12, 1, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func newBooking(propertyID string, start, end time.Time) *models.Booking {
	return &models.Booking{
		PropertyID:  propertyID,
		ClientName:  "Marie Dupont",
		ClientEmail: "marie@example.com",
		StartDate:   start,
		EndDate:     end,
		Guests:      2,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("Success materializes one row per day", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		booking := newBooking(property.ID, futureDate(10), futureDate(13))
		assert.NoError(t, CreateBooking(database, booking))
		assert.Equal(t, models.BookingStatusPending, booking.Status)

		var rows []models.UnavailableDate
		assert.NoError(t, database.Where("booking_id = ?", booking.ID).Order("date").Find(&rows).Error)
		assert.Len(t, rows, 4)
		assert.True(t, rows[0].Date.Equal(futureDate(10)))
		assert.True(t, rows[3].Date.Equal(futureDate(13)))
		for _, row := range rows {
			assert.Equal(t, models.UnavailableReasonBooked, row.Reason)
			assert.True(t, row.IsWholeDay())
		}
	})

	t.Run("Single day booking is accepted", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		booking := newBooking(property.ID, futureDate(5), futureDate(5))
		assert.NoError(t, CreateBooking(database, booking))

		var count int64
		database.Model(&models.UnavailableDate{}).Where("booking_id = ?", booking.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Inverted range is rejected", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		booking := newBooking(property.ID, futureDate(10), futureDate(8))
		err := CreateBooking(database, booking)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Overlapping range is rejected", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		first := newBooking(property.ID, futureDate(10), futureDate(15))
		assert.NoError(t, CreateBooking(database, first))

		second := newBooking(property.ID, futureDate(13), futureDate(18))
		assert.ErrorIs(t, CreateBooking(database, second), ErrConflict)
	})

	t.Run("Touching endpoints conflict", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		first := newBooking(property.ID, futureDate(10), futureDate(15))
		assert.NoError(t, CreateBooking(database, first))

		// A stay starting on the previous one's departure day is rejected
		second := newBooking(property.ID, futureDate(15), futureDate(20))
		assert.ErrorIs(t, CreateBooking(database, second), ErrConflict)
	})

	t.Run("Other properties are unaffected", func(t *testing.T) {
		database := setupTestDB(t)
		first := createTestProperty(t, database, models.PropertyTypeShortTermRental)
		second := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		assert.NoError(t, CreateBooking(database, newBooking(first.ID, futureDate(10), futureDate(15))))
		assert.NoError(t, CreateBooking(database, newBooking(second.ID, futureDate(10), futureDate(15))))
	})

	t.Run("Manual block rejects the range", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		block := &models.UnavailableDate{PropertyID: property.ID, Date: futureDate(12), Reason: "Maintenance"}
		assert.NoError(t, database.Create(block).Error)

		assert.ErrorIs(t, CreateBooking(database, newBooking(property.ID, futureDate(10), futureDate(15))), ErrConflict)
	})

	t.Run("Sale listing does not accept stays", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeSale)

		assert.ErrorIs(t, CreateBooking(database, newBooking(property.ID, futureDate(10), futureDate(15))), ErrValidation)
	})

	t.Run("Unknown property", func(t *testing.T) {
		database := setupTestDB(t)
		assert.ErrorIs(t, CreateBooking(database, newBooking("missing", futureDate(10), futureDate(15))), ErrNotFound)
	})

	t.Run("Concurrent requests admit exactly one", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = CreateBooking(database, newBooking(property.ID, futureDate(10), futureDate(15)))
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
		database.Model(&models.Booking{}).Where("property_id = ?", property.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("Cancel frees the materialized dates", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		booking := newBooking(property.ID, futureDate(10), futureDate(15))
		assert.NoError(t, CreateBooking(database, booking))

		cancelled, err := CancelBooking(database, booking.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)

		var count int64
		database.Model(&models.UnavailableDate{}).Where("booking_id = ?", booking.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Cancel is idempotent", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		booking := newBooking(property.ID, futureDate(10), futureDate(15))
		assert.NoError(t, CreateBooking(database, booking))

		first, err := CancelBooking(database, booking.ID)
		assert.NoError(t, err)
		assert.NotNil(t, first.CancelledAt)

		second, err := CancelBooking(database, booking.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, second.Status)
		assert.NotNil(t, second.CancelledAt)
		assert.WithinDuration(t, *first.CancelledAt, *second.CancelledAt, time.Second)
	})

	t.Run("Cancelled range can be rebooked", func(t *testing.T) {
		database := setupTestDB(t)
		property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

		booking := newBooking(property.ID, futureDate(10), futureDate(15))
		assert.NoError(t, CreateBooking(database, booking))

		_, err := CancelBooking(database, booking.ID)
		assert.NoError(t, err)

		rebook := newBooking(property.ID, futureDate(10), futureDate(15))
		assert.NoError(t, CreateBooking(database, rebook))
	})

	t.Run("Unknown booking", func(t *testing.T) {
		database := setupTestDB(t)
		_, err := CancelBooking(database, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConfirmBooking(t *testing.T) {
	database := setupTestDB(t)
	property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

	booking := newBooking(property.ID, futureDate(10), futureDate(15))
	assert.NoError(t, CreateBooking(database, booking))

	confirmed, err := ConfirmBooking(database, booking.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	// Confirming twice is a no-op
	again, err := ConfirmBooking(database, booking.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, again.Status)

	// Cancelled bookings cannot be confirmed
	_, err = CancelBooking(database, booking.ID)
	assert.NoError(t, err)
	_, err = ConfirmBooking(database, booking.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateBookingReschedule(t *testing.T) {
	database := setupTestDB(t)
	property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

	booking := newBooking(property.ID, futureDate(10), futureDate(12))
	assert.NoError(t, CreateBooking(database, booking))

	// Shift by a week and check the calendar follows
	assert.NoError(t, UpdateBooking(database, booking, futureDate(17), futureDate(19)))

	var rows []models.UnavailableDate
	assert.NoError(t, database.Where("booking_id = ?", booking.ID).Order("date").Find(&rows).Error)
	assert.Len(t, rows, 3)
	assert.True(t, rows[0].Date.Equal(futureDate(17)))

	// The old dates are free again
	other := newBooking(property.ID, futureDate(10), futureDate(12))
	assert.NoError(t, CreateBooking(database, other))

	// A reschedule onto a taken range is refused and nothing moves
	err := UpdateBooking(database, booking, futureDate(11), futureDate(13))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCheckBookingConflictExclusion(t *testing.T) {
	database := setupTestDB(t)
	property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

	booking := newBooking(property.ID, futureDate(10), futureDate(15))
	assert.NoError(t, CreateBooking(database, booking))

	// The booking does not conflict with itself when excluded
	bookings, blocks, err := CheckBookingConflict(database, property.ID, futureDate(12), futureDate(14), booking.ID)
	assert.NoError(t, err)
	assert.Empty(t, bookings)
	assert.Empty(t, blocks)

	// But it does for anyone else
	bookings, _, err = CheckBookingConflict(database, property.ID, futureDate(12), futureDate(14), "")
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestDeleteBooking(t *testing.T) {
	database := setupTestDB(t)
	property := createTestProperty(t, database, models.PropertyTypeShortTermRental)

	booking := newBooking(property.ID, futureDate(10), futureDate(12))
	assert.NoError(t, CreateBooking(database, booking))

	assert.NoError(t, DeleteBooking(database, booking.ID))

	err := database.Unscoped().First(&models.Booking{}, "id = ?", booking.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	database.Model(&models.UnavailableDate{}).Where("booking_id = ?", booking.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, DeleteBooking(database, "missing"), ErrNotFound)
}
