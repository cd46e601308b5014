package services

import (
	"errors"
	"fmt"
	"strings"

	"estate_flow_go/models"

	"gorm.io/gorm"
)

// CreateContact persists a lead from the public contact form
func CreateContact(db *gorm.DB, contact *models.Contact) error {
	contact.Name = SanitizeText(contact.Name)
	contact.Message = SanitizeText(contact.Message)
	contact.Location = SanitizeText(contact.Location)

	if strings.TrimSpace(contact.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(contact.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	if contact.Status == "" {
		contact.Status = models.ContactStatusNew
	}
	return db.Create(contact).Error
}

// GetContacts fetches leads, optionally filtered by status, newest first
func GetContacts(db *gorm.DB, status string) ([]models.Contact, error) {
	var contacts []models.Contact
	query := db.Model(&models.Contact{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at desc").Find(&contacts).Error
	return contacts, err
}

// GetContactByID fetches a single lead
func GetContactByID(db *gorm.DB, id string) (*models.Contact, error) {
	var contact models.Contact
	err := db.First(&contact, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contact %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &contact, nil
}

// UpdateContactStatus moves a lead through the follow-up pipeline
func UpdateContactStatus(db *gorm.DB, id string, status string) (*models.Contact, error) {
	if !models.IsValidContactStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	contact, err := GetContactByID(db, id)
	if err != nil {
		return nil, err
	}

	contact.Status = status
	if err := db.Save(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a lead
func DeleteContact(db *gorm.DB, id string) error {
	result := db.Delete(&models.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: contact %s", ErrNotFound, id)
	}
	return nil
}
