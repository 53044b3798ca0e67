package user

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"Vitalog/internal/apperror"
	"Vitalog/internal/database"
	"Vitalog/internal/utility"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet      = "Blood Tests"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeLayout = "2006-01-02 15:04"
)

var exportHeader = []string{"Date", "Blood Sugar (mg/dL)", "Cholesterol (mg/dL)", "Uric Acid (mg/dL)"}

// ExportBloodTestsHandler streams the recent history as an xlsx workbook.
func ExportBloodTestsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	tests, err := queries.ListBloodTests(ctx, database.ListBloodTestsParams{UserID: userID, Limit: exportLimit})
	if err != nil {
		return respondError(c, apperror.NewDatabaseError(err))
	}

	buf, err := buildBloodTestWorkbook(tests)
	if err != nil {
		return respondError(c, apperror.Wrap(err, apperror.TypeInternal, "EXPORT_FAILED", "Failed to build export"))
	}

	filename := fmt.Sprintf("blood-tests-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	utility.GetLogger(c).Info().Str("user_id", userID).Int("rows", len(tests)).Msg("Blood tests exported")
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// buildBloodTestWorkbook writes one row per reading; unmeasured metrics are
// left blank.
func buildBloodTestWorkbook(tests []database.BloodTest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "A", "D", 20); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for i, bt := range tests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			bt.TestDate.Time.Format(exportTimeLayout),
			nullableCell(utility.Float8Ptr(bt.BloodSugar)),
			nullableCell(utility.Float8Ptr(bt.Cholesterol)),
			nullableCell(utility.Float8Ptr(bt.Gout)),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.WriteToBuffer()
}

func nullableCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
