package handlers

import (
	"net/http"

	"estate_flow_go/db"
	"estate_flow_go/middleware"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginHandler authenticates an admin or agent and opens a session
func LoginHandler(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := services.Authenticate(db.DB, req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	middleware.SetSessionCookie(c, session)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// LogoutHandler closes the current session
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to close session")
		}
	}

	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the authenticated user
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
