package services

import (
	"testing"
	"time"

	"estate_flow_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Property{},
		&models.Booking{},
		&models.UnavailableDate{},
		&models.Reservation{},
		&models.Availability{},
		&models.Contact{},
	)
	assert.NoError(t, err)

	return testDB
}

func createTestProperty(t *testing.T, db *gorm.DB, propertyType string) *models.Property {
	property := &models.Property{
		Title:    "Villa Les Pins",
		Price:    "1200",
		Location: "Biarritz",
		Type:     propertyType,
		IsActive: true,
	}
	assert.NoError(t, db.Create(property).Error)
	return property
}

// futureDate returns midnight UTC n days from now
func futureDate(n int) time.Time {
	return DateOnly(time.Now().AddDate(0, 0, n))
}

// nextWeekday returns the next future date falling on the given weekday,
// at least two days out so slot times never land in the past.
func nextWeekday(day time.Weekday) time.Time {
	d := futureDate(2)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
