// Package export builds spreadsheet downloads of parking activity.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

const (
	summarySheet  = "Summary"
	timeLayout    = "2006-01-02 15:04:05"
	dateLayout    = "20060102"
	monthLayout   = "200601"
	openAmountCol = "-"
)

var rowHeader = []string{"Token ID", "Vehicle No", "Phone Number", "Entry Time", "Exit Time", "Amount"}

// Workbook renders an ExportData set into a spreadsheet with a Summary
// sheet and one sheet per vehicle class that has rows in the window.
// Classes with no rows get no sheet.
func Workbook(data *usecase.ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary.
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	if err := writeSummary(f, data); err != nil {
		return nil, err
	}

	if len(data.TwoWheelerRows) > 0 {
		if err := writeClassSheet(f, domain.TwoWheeler.Label(), data.TwoWheelerRows); err != nil {
			return nil, err
		}
	}
	if len(data.FourWheelerRows) > 0 {
		if err := writeClassSheet(f, domain.FourWheeler.Label(), data.FourWheelerRows); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, data *usecase.ExportData) error {
	report := data.Report

	// Summary revenue comes from the exported rows themselves, so the
	// Summary totals always equal the sum of the class sheet amount
	// columns. The on-screen report's exit-windowed revenue would count
	// settlements whose entry row is outside the window and appears on
	// no sheet.
	twoRevenue := sheetRevenue(data.TwoWheelerRows)
	fourRevenue := sheetRevenue(data.FourWheelerRows)

	rows := [][]interface{}{
		{"Parking Report"},
		{},
		{"Period Start", report.Start.Format(timeLayout)},
		{"Period End", report.End.Format(timeLayout)},
		{"Generated At", report.GeneratedAt.Format(timeLayout)},
		{},
		{"", "Entries", "Revenue", "Currently Parked"},
		{domain.TwoWheeler.Label(), len(data.TwoWheelerRows), twoRevenue.InexactFloat64(), report.TwoWheeler.OpenCount},
		{domain.FourWheeler.Label(), len(data.FourWheelerRows), fourRevenue.InexactFloat64(), report.FourWheeler.OpenCount},
		{"Total", len(data.TwoWheelerRows) + len(data.FourWheelerRows), twoRevenue.Add(fourRevenue).InexactFloat64(), report.TotalOpen()},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address summary row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create summary style: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", bold); err != nil {
		return fmt.Errorf("failed to style summary title: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A7", "D7", bold); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}

	return nil
}

// sheetRevenue sums the amounts of the closed rows a class sheet lists.
func sheetRevenue(entries []*domain.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Amount != nil {
			total = total.Add(*e.Amount)
		}
	}
	return total
}

func writeClassSheet(f *excelize.File, name string, entries []*domain.Entry) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	header := make([]interface{}, len(rowHeader))
	for i, h := range rowHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", name, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(rowHeader), 1)
	if err != nil {
		return fmt.Errorf("failed to address header on %q: %w", name, err)
	}
	if err := f.SetCellStyle(name, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header on %q: %w", name, err)
	}

	total := decimal.Zero
	for i, e := range entries {
		exitTime := openAmountCol
		amount := interface{}(openAmountCol)
		if e.ExitTime != nil {
			exitTime = e.ExitTime.Format(timeLayout)
		}
		if e.Amount != nil {
			amount = e.Amount.InexactFloat64()
			total = total.Add(*e.Amount)
		}

		row := []interface{}{
			e.TokenID,
			e.VehicleNo,
			e.PhoneNumber,
			e.EntryTime.Format(timeLayout),
			exitTime,
			amount,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d on %q: %w", i+2, name, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", i+2, name, err)
		}
	}

	totalRow := []interface{}{"Total", "", "", "", "", total.InexactFloat64()}
	cell, err := excelize.CoordinatesToCellName(1, len(entries)+2)
	if err != nil {
		return fmt.Errorf("failed to address total row on %q: %w", name, err)
	}
	if err := f.SetSheetRow(name, cell, &totalRow); err != nil {
		return fmt.Errorf("failed to write total row on %q: %w", name, err)
	}

	return nil
}

// DailyFilename names the export for one calendar day.
func DailyFilename(day time.Time) string {
	return fmt.Sprintf("daily_report_%s.xlsx", day.Format(dateLayout))
}

// WeeklyFilename names the export for the seven-day window ending on day.
func WeeklyFilename(day time.Time) string {
	return fmt.Sprintf("weekly_report_%s.xlsx", day.Format(dateLayout))
}

// MonthlyFilename names the export for one calendar month.
func MonthlyFilename(month time.Time) string {
	return fmt.Sprintf("monthly_report_%s.xlsx", month.Format(monthLayout))
}
