package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into Echo's c.Validate
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates the validator used by all handlers
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validator: validator.New()}
}

// Validate implements echo.Validator
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
