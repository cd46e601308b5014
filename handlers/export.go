package handlers

import (
	"net/http"

	"estate_flow_go/db"
	"estate_flow_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportBookingsHandler streams the bookings workbook
func ExportBookingsHandler(c echo.Context) error {
	filters := services.BookingFilters{
		PropertyID: c.QueryParam("property_id"),
		Status:     c.QueryParam("status"),
	}

	bookings, err := services.GetBookings(db.DB, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookings")
	}

	buf, err := services.GenerateBookingsWorkbook(bookings)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate workbook")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportContactsHandler streams the contacts workbook
func ExportContactsHandler(c echo.Context) error {
	contacts, err := services.GetContacts(db.DB, c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contacts")
	}

	buf, err := services.GenerateContactsWorkbook(contacts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate workbook")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contacts.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
