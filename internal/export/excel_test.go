package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

func sampleExport(t *testing.T) *usecase.ExportData {
	t.Helper()

	entry := time.Date(2026, time.March, 9, 9, 15, 0, 0, time.UTC)
	exit := entry.Add(2 * time.Hour)
	amount := decimal.NewFromInt(60)

	return &usecase.ExportData{
		Report: &domain.Report{
			Start:       time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
			End:         time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			GeneratedAt: exit,
			TwoWheeler:  domain.ClassMetrics{OpenCount: 1, EntryCount: 2, Revenue: decimal.NewFromInt(60)},
			FourWheeler: domain.ClassMetrics{},
		},
		TwoWheelerRows: []*domain.Entry{
			{
				TokenID:      "TWABC123",
				VehicleClass: domain.TwoWheeler,
				VehicleNo:    "KA01AB1234",
				PhoneNumber:  "9876543210",
				EntryTime:    entry,
				ExitTime:     &exit,
				Amount:       &amount,
			},
			{
				TokenID:      "TWXYZ789",
				VehicleClass: domain.TwoWheeler,
				VehicleNo:    "KA02CD5678",
				EntryTime:    entry.Add(30 * time.Minute),
			},
		},
	}
}

func TestWorkbookSheets(t *testing.T) {
	data := sampleExport(t)

	raw, err := Workbook(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, domain.TwoWheeler.Label())
	assert.NotContains(t, sheets, domain.FourWheeler.Label(), "empty class should not get a sheet")
}

func TestWorkbookSummaryContents(t *testing.T) {
	data := sampleExport(t)

	raw, err := Workbook(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Parking Report", title)

	entries, err := f.GetCellValue("Summary", "B8")
	require.NoError(t, err)
	assert.Equal(t, "2", entries)

	revenue, err := f.GetCellValue("Summary", "C8")
	require.NoError(t, err)
	assert.Equal(t, "60", revenue)
}

func TestWorkbookClassRows(t *testing.T) {
	data := sampleExport(t)

	raw, err := Workbook(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	sheet := domain.TwoWheeler.Label()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two entries, total")

	assert.Equal(t, "Token ID", rows[0][0])
	assert.Equal(t, "TWABC123", rows[1][0])
	assert.Equal(t, "60", rows[1][5])

	// Open entry shows a dash for exit time and amount.
	assert.Equal(t, "TWXYZ789", rows[2][0])
	assert.Equal(t, "-", rows[2][4])
	assert.Equal(t, "-", rows[2][5])

	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "60", rows[3][5])
}

func TestWorkbookSummaryMatchesSheetTotals(t *testing.T) {
	// A vehicle that entered before the window and exited inside it
	// contributes to the report's exit-windowed revenue but appears on
	// no class sheet. The workbook summary must stay consistent with
	// the sheets, not with the on-screen report.
	entry := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	exit := entry.Add(3 * time.Hour)
	amount := decimal.NewFromInt(150)

	data := &usecase.ExportData{
		Report: &domain.Report{
			Start:       time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
			End:         time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			GeneratedAt: exit,
			// Overnight parker settled in-window: revenue with no
			// matching entry row.
			FourWheeler: domain.ClassMetrics{EntryCount: 1, Revenue: decimal.NewFromInt(300)},
		},
		FourWheelerRows: []*domain.Entry{
			{
				TokenID:      "FWDEF456",
				VehicleClass: domain.FourWheeler,
				VehicleNo:    "KA03EF9012",
				EntryTime:    entry,
				ExitTime:     &exit,
				Amount:       &amount,
			},
		},
	}

	raw, err := Workbook(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	sheetTotalRows, err := f.GetRows(domain.FourWheeler.Label())
	require.NoError(t, err)
	sheetTotal := sheetTotalRows[len(sheetTotalRows)-1]
	require.Equal(t, "Total", sheetTotal[0])

	summaryRevenue, err := f.GetCellValue("Summary", "C9")
	require.NoError(t, err)
	assert.Equal(t, sheetTotal[5], summaryRevenue, "summary revenue must equal the class sheet total")
	assert.Equal(t, "150", summaryRevenue)

	totalRevenue, err := f.GetCellValue("Summary", "C10")
	require.NoError(t, err)
	assert.Equal(t, "150", totalRevenue)
}

func TestFilenames(t *testing.T) {
	day := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "daily_report_20260309.xlsx", DailyFilename(day))
	assert.Equal(t, "weekly_report_20260309.xlsx", WeeklyFilename(day))
	assert.Equal(t, "monthly_report_202603.xlsx", MonthlyFilename(day))
}
