package services

import (
	"bytes"
	"fmt"

	"estate_flow_go/models"

	"github.com/xuri/excelize/v2"
)

// GenerateBookingsWorkbook builds an Excel workbook listing bookings for the
// back office. One row per booking, newest first as passed in.
func GenerateBookingsWorkbook(bookings []models.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Reference", "Property", "Client", "Email", "Phone", "Arrival", "Departure", "Nights", "Guests", "Status", "Created"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", headerStyle)

	for i, b := range bookings {
		row := i + 2
		phone := ""
		if b.ClientPhone != nil {
			phone = *b.ClientPhone
		}
		values := []interface{}{
			b.ID,
			b.Property.Title,
			b.ClientName,
			b.ClientEmail,
			phone,
			b.StartDate.Format("2006-01-02"),
			b.EndDate.Format("2006-01-02"),
			b.Nights(),
			b.Guests,
			b.Status,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "E", 28)
	f.SetColWidth(sheet, "F", "K", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// GenerateContactsWorkbook builds an Excel workbook listing captured leads
func GenerateContactsWorkbook(contacts []models.Contact) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Contacts"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Email", "Phone", "Project", "Location", "Timeline", "Status", "Received"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	for i, c := range contacts {
		row := i + 2
		values := []interface{}{
			c.Name,
			c.Email,
			c.Phone,
			c.ProjectType,
			c.Location,
			c.Timeline,
			c.Status,
			c.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "C", 26)
	f.SetColWidth(sheet, "D", "H", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
