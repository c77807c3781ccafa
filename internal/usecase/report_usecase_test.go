package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
	"github.com/iho/parklot/internal/usecase/mocks"
)

func closedEntry(token string, class domain.VehicleClass, entryTime time.Time, stay time.Duration, amount int64) *domain.Entry {
	exit := entryTime.Add(stay)
	amt := decimal.NewFromInt(amount)
	return &domain.Entry{
		ID:           "row-" + token,
		TokenID:      token,
		VehicleClass: class,
		VehicleNo:    "KA01AB1234",
		EntryTime:    entryTime,
		ExitTime:     &exit,
		Amount:       &amt,
		CreatedAt:    entryTime,
	}
}

func openEntry(token string, class domain.VehicleClass, entryTime time.Time) *domain.Entry {
	return &domain.Entry{
		ID:           "row-" + token,
		TokenID:      token,
		VehicleClass: class,
		VehicleNo:    "KA01AB1234",
		EntryTime:    entryTime,
		CreatedAt:    entryTime,
	}
}

func TestResolveDateFilter(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	midnight := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		filter    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{filter: "today", wantStart: midnight, wantEnd: now},
		{filter: "yesterday", wantStart: midnight.AddDate(0, 0, -1), wantEnd: midnight},
		{filter: "7days", wantStart: now.AddDate(0, 0, -7), wantEnd: now},
		{filter: "30days", wantStart: now.AddDate(0, 0, -30), wantEnd: now},
		{filter: "bogus", wantStart: now.AddDate(0, 0, -7), wantEnd: now},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			start, end := usecase.ResolveDateFilter(tt.filter, now)
			assert.True(t, start.Equal(tt.wantStart), "start = %v, want %v", start, tt.wantStart)
			assert.True(t, end.Equal(tt.wantEnd), "end = %v, want %v", end, tt.wantEnd)
		})
	}
}

func TestBuildReport(t *testing.T) {
	start := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	repo := mocks.NewMockEntryRepository()
	repo.Seed(
		// Day 1: two closed two-wheelers, one closed four-wheeler.
		closedEntry("TWAAAAA1", domain.TwoWheeler, start.Add(9*time.Hour), 30*time.Minute, 30),
		closedEntry("TWAAAAA2", domain.TwoWheeler, start.Add(10*time.Hour), 2*time.Hour, 60),
		closedEntry("FWAAAAA1", domain.FourWheeler, start.Add(9*time.Hour), 3*time.Hour, 150),
		// Day 2: one closed four-wheeler.
		closedEntry("FWAAAAA2", domain.FourWheeler, start.Add(24*time.Hour+11*time.Hour), time.Hour, 50),
		// Still parked: counted open, no revenue.
		openEntry("TWAAAAA3", domain.TwoWheeler, start.Add(24*time.Hour+9*time.Hour)),
		// Before the window: invisible to window aggregates.
		closedEntry("TWAAAAA4", domain.TwoWheeler, start.Add(-48*time.Hour), time.Hour, 30),
	)

	uc := usecase.NewReportUseCase(repo, nil)

	report, err := uc.BuildReport(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TwoWheeler.OpenCount)
	assert.Equal(t, 0, report.FourWheeler.OpenCount)
	assert.Equal(t, 3, report.TwoWheeler.EntryCount)
	assert.Equal(t, 2, report.FourWheeler.EntryCount)
	assert.True(t, report.TwoWheeler.Revenue.Equal(decimal.NewFromInt(90)))
	assert.True(t, report.FourWheeler.Revenue.Equal(decimal.NewFromInt(200)))
	assert.True(t, report.TotalRevenue().Equal(decimal.NewFromInt(290)))
	assert.Equal(t, 5, report.TotalEntries())

	// One point per calendar day, inclusive on both ends.
	require.Len(t, report.DailyRevenue, 4)
	assert.True(t, report.DailyRevenue[0].TwoWheelerRevenue.Equal(decimal.NewFromInt(90)))
	assert.True(t, report.DailyRevenue[0].FourWheelerRevenue.Equal(decimal.NewFromInt(150)))
	assert.True(t, report.DailyRevenue[1].FourWheelerRevenue.Equal(decimal.NewFromInt(50)))
	assert.True(t, report.DailyRevenue[2].TwoWheelerRevenue.IsZero())

	// Hourly distribution counts entries by hour of day across the window.
	assert.Equal(t, 2, report.HourlyTrend[9].TwoWheeler)
	assert.Equal(t, 1, report.HourlyTrend[9].FourWheeler)
	assert.Equal(t, 1, report.HourlyTrend[10].TwoWheeler)
	assert.Equal(t, 1, report.HourlyTrend[11].FourWheeler)
	assert.Equal(t, 0, report.HourlyTrend[3].TwoWheeler)
}

func TestBuildReportEmptyWindow(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	uc := usecase.NewReportUseCase(repo, nil)

	start := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	report, err := uc.BuildReport(context.Background(), start, end)
	require.NoError(t, err)

	assert.True(t, report.TotalRevenue().IsZero())
	assert.Equal(t, 0, report.TotalEntries())
	assert.Equal(t, 0, report.TotalOpen())
	require.Len(t, report.DailyRevenue, 2)
	assert.True(t, report.DailyRevenue[0].TwoWheelerRevenue.IsZero())
}

// Revenue over disjoint windows that partition a superset window must sum
// to the revenue over the superset.
func TestRevenuePartitionProperty(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := mocks.NewMockEntryRepository()
	repo.Seed(
		closedEntry("TWAAAAA1", domain.TwoWheeler, base.Add(2*time.Hour), time.Hour, 30),
		closedEntry("TWAAAAA2", domain.TwoWheeler, base.Add(30*time.Hour), time.Hour, 60),
		closedEntry("FWAAAAA1", domain.FourWheeler, base.Add(50*time.Hour), 2*time.Hour, 100),
		closedEntry("FWAAAAA2", domain.FourWheeler, base.Add(70*time.Hour), time.Hour, 50),
	)

	uc := usecase.NewReportUseCase(repo, nil)
	ctx := context.Background()

	mid := base.AddDate(0, 0, 2)
	end := base.AddDate(0, 0, 4)

	whole, err := uc.BuildReport(ctx, base, end)
	require.NoError(t, err)

	left, err := uc.BuildReport(ctx, base, mid)
	require.NoError(t, err)

	right, err := uc.BuildReport(ctx, mid, end)
	require.NoError(t, err)

	sum := left.TotalRevenue().Add(right.TotalRevenue())
	assert.True(t, whole.TotalRevenue().Equal(sum),
		"partition sum %s != superset %s", sum, whole.TotalRevenue())
}

func TestGetDashboardStats(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	now := time.Now()
	repo.Seed(
		openEntry("TWAAAAA1", domain.TwoWheeler, now.Add(-2*time.Hour)),
		openEntry("FWAAAAA1", domain.FourWheeler, now.Add(-time.Hour)),
		openEntry("FWAAAAA2", domain.FourWheeler, now.Add(-30*time.Minute)),
		closedEntry("TWAAAAA2", domain.TwoWheeler, now.Add(-3*time.Hour), time.Hour, 30),
	)

	cache := mocks.NewMockCache()
	uc := usecase.NewReportUseCase(repo, cache)

	stats, err := uc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TwoWheelerOpen)
	assert.Equal(t, 2, stats.FourWheelerOpen)
	assert.Equal(t, 3, stats.TotalOpen)

	// Second call is served from cache even if the ledger moves on.
	repo.Seed(openEntry("TWAAAAA9", domain.TwoWheeler, now))

	cached, err := uc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cached.TotalOpen)
}

func TestBuildExport(t *testing.T) {
	start := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	repo := mocks.NewMockEntryRepository()
	repo.Seed(
		closedEntry("TWAAAAA1", domain.TwoWheeler, start.Add(9*time.Hour), time.Hour, 30),
		openEntry("FWAAAAA1", domain.FourWheeler, start.Add(10*time.Hour)),
	)

	uc := usecase.NewReportUseCase(repo, nil)

	data, err := uc.BuildExport(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, data.TwoWheelerRows, 1)
	require.Len(t, data.FourWheelerRows, 1)
	assert.True(t, data.Report.TwoWheeler.Revenue.Equal(decimal.NewFromInt(30)))
}
