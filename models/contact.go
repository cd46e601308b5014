package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact status constants
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusClosed     = "closed"
)

// Contact represents a lead captured from the public contact form
type Contact struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;not null;index" json:"email"`
	Phone string `gorm:"size:50" json:"phone"`

	// Search project details
	ProjectType  string `gorm:"size:50;not null" json:"project_type"` // buy, rent, seasonal
	PropertyKind string `gorm:"size:50" json:"property_kind"`         // apartment, house, ...
	Rooms        string `gorm:"size:10" json:"rooms"`
	SurfaceMin   *int   `json:"surface_min,omitempty"`
	SurfaceMax   *int   `json:"surface_max,omitempty"`
	BudgetMin    *int   `json:"budget_min,omitempty"`
	BudgetMax    *int   `json:"budget_max,omitempty"`
	Location     string `gorm:"size:255" json:"location"`
	Timeline     string `gorm:"size:50" json:"timeline"`
	Message      string `gorm:"type:text" json:"message"`

	Status string `gorm:"size:50;default:'new';index" json:"status"`
}

// BeforeCreate hook to generate UUID
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Contact model
func (Contact) TableName() string {
	return "contacts"
}

// IsValidContactStatus checks if the status is valid
func IsValidContactStatus(status string) bool {
	switch status {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusClosed:
		return true
	}
	return false
}
