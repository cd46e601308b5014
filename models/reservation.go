package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation status constants
const (
	ReservationStatusPending   = "PENDING"
	ReservationStatusConfirmed = "CONFIRMED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusExpired   = "EXPIRED"
	ReservationStatusCompleted = "COMPLETED"
)

// Reservation visit type constants (which kind of listing the visit is for)
const (
	ReservationTypeSale   = "sale"
	ReservationTypeRental = "long_term_rental"
)

// Reservation represents a property-visit appointment at a specific hour
type Reservation struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID string   `gorm:"type:uuid;index;not null" json:"property_id"`
	Property   Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`

	// Visitor info snapshot
	ClientName  string `gorm:"size:200;not null" json:"client_name"`
	ClientEmail string `gorm:"size:255;not null;index" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	Type string `gorm:"size:50;not null" json:"type"` // sale or long_term_rental visit

	// MeetingDate is the visit timestamp at hour granularity (UTC)
	MeetingDate time.Time `gorm:"not null;index" json:"meeting_date"`

	Status      string     `gorm:"size:20;default:'PENDING';index" json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// IsValidReservationStatus checks if the status is valid
func IsValidReservationStatus(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled,
		ReservationStatusExpired, ReservationStatusCompleted:
		return true
	}
	return false
}

// IsValidReservationType checks if the visit type is valid
func IsValidReservationType(t string) bool {
	return t == ReservationTypeSale || t == ReservationTypeRental
}

// IsTerminal reports whether the status admits no further transitions
func IsTerminalReservationStatus(status string) bool {
	switch status {
	case ReservationStatusCancelled, ReservationStatusExpired, ReservationStatusCompleted:
		return true
	}
	return false
}

// CanTransitionReservationStatus reports whether a status change follows the
// visit lifecycle. Pending visits get confirmed, cancelled or expire;
// confirmed visits complete or get cancelled. Nothing leaves a terminal
// status.
func CanTransitionReservationStatus(from, to string) bool {
	switch from {
	case ReservationStatusPending:
		return to == ReservationStatusConfirmed ||
			to == ReservationStatusCancelled ||
			to == ReservationStatusExpired
	case ReservationStatusConfirmed:
		return to == ReservationStatusCompleted ||
			to == ReservationStatusCancelled
	}
	return false
}

// Occupies reports whether the reservation holds its slot. Pending
// reservations older than the confirmation window are treated as free even
// before the expiry sweep flips their status.
func (r *Reservation) Occupies(now time.Time, expiryWindow time.Duration) bool {
	switch r.Status {
	case ReservationStatusConfirmed, ReservationStatusCompleted:
		return true
	case ReservationStatusPending:
		return now.Sub(r.CreatedAt) < expiryWindow
	}
	return false
}

// IsCancellable checks if the reservation can be cancelled
func (r *Reservation) IsCancellable() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}
