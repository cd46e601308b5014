package handlers

import (
	"net/http"

	"estate_flow_go/db"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports service and database status
func HealthHandler(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}
