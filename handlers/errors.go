package handlers

import (
	"errors"
	"net/http"

	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// serviceError translates service-layer sentinel errors into HTTP errors.
// Anything unrecognized becomes a 500 with a generic message.
func serviceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
