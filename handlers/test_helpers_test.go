package handlers

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"estate_flow_go/config"
	"estate_flow_go/db"
	"estate_flow_go/models"
	"estate_flow_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
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

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

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

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:            "test",
		EmailTestMode:          true,
		EmailFromName:          "Agence Immo",
		ReservationExpiryHours: 48,
	})

	return e, c, rec
}

func createTestProperty(t *testing.T, database *gorm.DB, propertyType string) *models.Property {
	property := &models.Property{
		Title:    "Appartement Vue Mer",
		Price:    "950",
		Location: "Nice",
		Type:     propertyType,
		IsActive: true,
	}
	assert.NoError(t, database.Create(property).Error)
	return property
}

func futureDateStr(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}

func nextWeekdayStr(day time.Weekday) string {
	d := time.Now().AddDate(0, 0, 2)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}
