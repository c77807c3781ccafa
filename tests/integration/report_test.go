package integration

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/parklot/internal/adapter/repository/postgres"
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/export"
	"github.com/iho/parklot/internal/usecase"
	"github.com/iho/parklot/tests/testutil"
)

func TestReportAggregation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	entryRepo := postgres.NewEntryRepository(testDB.Pool)
	reportUC := usecase.NewReportUseCase(entryRepo, nil)

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Two settled two-wheelers and one settled four-wheeler today.
	testDB.CreateClosedEntry(ctx, domain.TwoWheeler, "TWRPT001", "KA01AB1234",
		dayStart.Add(8*time.Hour), dayStart.Add(10*time.Hour), decimal.NewFromInt(60))
	testDB.CreateClosedEntry(ctx, domain.TwoWheeler, "TWRPT002", "KA02CD5678",
		dayStart.Add(9*time.Hour), dayStart.Add(10*time.Hour), decimal.NewFromInt(30))
	testDB.CreateClosedEntry(ctx, domain.FourWheeler, "FWRPT001", "KA05EF9012",
		dayStart.Add(11*time.Hour), dayStart.Add(13*time.Hour), decimal.NewFromInt(100))

	// One still parked, one settled yesterday; neither counts toward today's revenue.
	testDB.CreateOpenEntry(ctx, domain.FourWheeler, "FWRPT002", "KA09XY0001", dayStart.Add(12*time.Hour))
	testDB.CreateClosedEntry(ctx, domain.TwoWheeler, "TWRPT003", "KA03GH3456",
		dayStart.Add(-20*time.Hour), dayStart.Add(-18*time.Hour), decimal.NewFromInt(60))

	report, err := reportUC.BuildReport(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}

	if !report.TwoWheeler.Revenue.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected two-wheeler revenue 90, got %s", report.TwoWheeler.Revenue)
	}
	if !report.FourWheeler.Revenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected four-wheeler revenue 100, got %s", report.FourWheeler.Revenue)
	}
	if report.TwoWheeler.EntryCount != 2 {
		t.Fatalf("expected 2 two-wheeler entries, got %d", report.TwoWheeler.EntryCount)
	}
	if report.FourWheeler.EntryCount != 2 {
		t.Fatalf("expected 2 four-wheeler entries today, got %d", report.FourWheeler.EntryCount)
	}
	if report.FourWheeler.OpenCount != 1 {
		t.Fatalf("expected 1 open four-wheeler, got %d", report.FourWheeler.OpenCount)
	}

	exportData, err := reportUC.BuildExport(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("failed to build export: %v", err)
	}
	if len(exportData.TwoWheelerRows) != 2 || len(exportData.FourWheelerRows) != 2 {
		t.Fatalf("unexpected export row counts: %d / %d", len(exportData.TwoWheelerRows), len(exportData.FourWheelerRows))
	}
}

func TestExportSummaryConsistency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	entryRepo := postgres.NewEntryRepository(testDB.Pool)
	reportUC := usecase.NewReportUseCase(entryRepo, nil)

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Overnight parker: entered before the window, settled inside it. Its
	// amount counts toward the report's exit-windowed revenue but the row
	// is listed on no class sheet.
	testDB.CreateClosedEntry(ctx, domain.FourWheeler, "FWOVN001", "KA07GH7890",
		dayStart.Add(-3*time.Hour), dayStart.Add(2*time.Hour), decimal.NewFromInt(150))
	testDB.CreateClosedEntry(ctx, domain.FourWheeler, "FWOVN002", "KA08IJ2345",
		dayStart.Add(9*time.Hour), dayStart.Add(11*time.Hour), decimal.NewFromInt(100))

	data, err := reportUC.BuildExport(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("failed to build export: %v", err)
	}

	raw, err := export.Workbook(data)
	if err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(domain.FourWheeler.Label())
	if err != nil {
		t.Fatalf("failed to read class sheet: %v", err)
	}
	sheetTotal := rows[len(rows)-1][5]

	summaryRevenue, err := f.GetCellValue("Summary", "C9")
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	if summaryRevenue != sheetTotal {
		t.Fatalf("summary revenue %s does not match sheet total %s", summaryRevenue, sheetTotal)
	}
	if summaryRevenue != "100" {
		t.Fatalf("expected in-window sheet revenue 100, got %s", summaryRevenue)
	}
}
