package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common unavailable-date reasons
const (
	UnavailableReasonBooked = "Booked"
)

// UnavailableDate marks a calendar day (or one visit slot of a day) as not
// bookable for a property. Rows are either created manually by an
// administrator or materialized from a confirmed booking range, one row per
// day, so date-level availability queries are plain lookups.
type UnavailableDate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PropertyID string   `gorm:"type:uuid;index;not null" json:"property_id"`
	Property   Property `gorm:"foreignKey:PropertyID" json:"-"`

	Date   time.Time `gorm:"type:date;not null;index" json:"date"`
	Reason string    `gorm:"size:255" json:"reason"`

	// BlockedTime narrows the block to a single visit slot ("HH:MM").
	// Nil means the whole day is blocked.
	BlockedTime *string `gorm:"size:5" json:"blocked_time,omitempty"`

	// BookingID links rows materialized from a booking, so cancelling the
	// booking can free exactly the days it claimed.
	BookingID *string `gorm:"type:uuid;index" json:"booking_id,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *UnavailableDate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for UnavailableDate model
func (UnavailableDate) TableName() string {
	return "unavailable_dates"
}

// IsWholeDay reports whether the block covers the entire day
func (u *UnavailableDate) IsWholeDay() bool {
	return u.BlockedTime == nil
}

// BlocksSlot reports whether the row blocks the given "HH:MM" slot
func (u *UnavailableDate) BlocksSlot(slot string) bool {
	if u.BlockedTime == nil {
		return true
	}
	return *u.BlockedTime == slot
}
