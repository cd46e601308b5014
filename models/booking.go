package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking status constants
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking represents a seasonal stay request over an inclusive date range.
// Dates are stored at day granularity (midnight UTC).
type Booking struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID string   `gorm:"type:uuid;index;not null" json:"property_id"`
	Property   Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`

	// Guest info snapshot
	ClientName  string  `gorm:"size:200;not null" json:"client_name"`
	ClientEmail string  `gorm:"size:255;not null;index" json:"client_email"`
	ClientPhone *string `gorm:"size:20" json:"client_phone,omitempty"`

	// Stay (inclusive range, day granularity)
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`

	Guests     int     `gorm:"default:1" json:"guests"`
	TotalPrice *string `gorm:"size:100" json:"total_price,omitempty"`

	Status      string     `gorm:"size:20;default:'PENDING';index" json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsValidBookingStatus checks if the status is valid
func IsValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the booking counts toward overlap checks
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// IsCancellable checks if the booking can be cancelled
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// Nights returns the number of nights in the stay (single-day bookings count as one)
func (b *Booking) Nights() int {
	n := int(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// Overlaps reports whether the booking's inclusive range intersects [start, end].
// Touching endpoints count as overlap (no same-day checkout/checkin).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !start.After(b.EndDate)
}
