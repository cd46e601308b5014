package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property listing type constants
const (
	PropertyTypeSale            = "sale"
	PropertyTypeLongTermRental  = "long_term_rental"
	PropertyTypeShortTermRental = "short_term_rental"
)

// Property represents a real-estate listing (for sale, long-term rent or seasonal rent)
type Property struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Price       string `gorm:"size:100;not null" json:"price"` // Display string, e.g. "285 000 €" or "75 €/nuit"
	Location    string `gorm:"size:255;not null;index" json:"location"`
	Type        string `gorm:"size:50;not null;index" json:"type"`
	Description string `gorm:"type:text" json:"description"`
	Bedrooms    int    `json:"bedrooms"`
	Area        int    `json:"area"` // Square meters

	// Media
	Image  string   `gorm:"type:text" json:"image"` // Cover image URL
	Images []string `gorm:"serializer:json" json:"images,omitempty"`

	Features []string `gorm:"serializer:json" json:"features,omitempty"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Property model
func (Property) TableName() string {
	return "properties"
}

// IsValidPropertyType checks if the listing type is valid
func IsValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeSale, PropertyTypeLongTermRental, PropertyTypeShortTermRental:
		return true
	}
	return false
}

// IsBookable reports whether the property accepts seasonal range bookings
func (p *Property) IsBookable() bool {
	return p.Type == PropertyTypeShortTermRental
}

// AcceptsVisits reports whether the property accepts visit reservations
func (p *Property) AcceptsVisits() bool {
	return p.Type == PropertyTypeSale || p.Type == PropertyTypeLongTermRental
}
