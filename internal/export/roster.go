// Package export builds downloadable workbooks from data the pages
// already fetch. Nothing is persisted server-side.
package export

import (
	"bytes"
	"fmt"
	"time"

	"washdesk/internal/models"

	"github.com/xuri/excelize/v2"
)

// RosterWorkbook renders the approved-applications roster as an xlsx
// workbook: one sheet per carwash, one row per appointment.
func RosterWorkbook(apps []models.CarwashApplication, sheetPrefix string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetPrefix == "" {
		sheetPrefix = "Roster"
	}

	for i, app := range apps {
		sheetName := sheetTitle(sheetPrefix, app.CarwashName, i)
		index, err := f.NewSheet(sheetName)
		if err != nil {
			return nil, fmt.Errorf("error creating sheet: %w", err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		_ = f.SetCellValue(sheetName, "A1", app.CarwashName)
		_ = f.SetCellValue(sheetName, "A2", "Appointment")
		_ = f.SetCellValue(sheetName, "B2", "Customer")
		_ = f.SetCellValue(sheetName, "C2", "Email")

		for row, appt := range app.Appointments {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row+3), appt.ID)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row+3), appt.UserName)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row+3), appt.UserEmail)
		}

		_ = f.SetColWidth(sheetName, "A", "A", 25)
		_ = f.SetColWidth(sheetName, "B", "C", 30)

		style, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 12},
		})
		_ = f.SetCellStyle(sheetName, "A1", "C2", style)
	}

	if len(apps) > 0 {
		_ = f.DeleteSheet("Sheet1")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf, nil
}

// FileName builds the suggested download name for the roster export.
func FileName(now time.Time) string {
	return fmt.Sprintf("roster_%s.xlsx", now.Format("2006-01-02"))
}

// sheetTitle keeps sheet names unique and within the 31-char xlsx limit.
func sheetTitle(prefix, carwashName string, index int) string {
	name := fmt.Sprintf("%s %d %s", prefix, index+1, carwashName)
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}
