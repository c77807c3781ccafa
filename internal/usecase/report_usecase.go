package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/domain"
)

// Date filter values accepted by the reports endpoints.
const (
	FilterToday     = "today"
	FilterYesterday = "yesterday"
	Filter7Days     = "7days"
	Filter30Days    = "30days"
)

// ResolveDateFilter maps a date-range selector to a [start, end) window.
// Unknown values fall back to the 7-day window. Day boundaries are local
// midnight in now's location.
func ResolveDateFilter(filter string, now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter {
	case FilterToday:
		return midnight, now
	case FilterYesterday:
		return midnight.AddDate(0, 0, -1), midnight
	case Filter30Days:
		return now.AddDate(0, 0, -30), now
	default:
		return now.AddDate(0, 0, -7), now
	}
}

// ReportUseCase computes time-windowed aggregations over the ledger.
// All reads are side-effect-free; each class is aggregated independently
// and the results combined.
type ReportUseCase struct {
	entryRepo EntryRepository
	cache     Cache
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(entryRepo EntryRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		entryRepo: entryRepo,
		cache:     cache,
	}
}

type classData struct {
	open    int
	entries []*domain.Entry
	closed  []*domain.Entry
}

func (uc *ReportUseCase) loadClass(ctx context.Context, class domain.VehicleClass, start, end time.Time) (classData, error) {
	var data classData

	open, err := uc.entryRepo.CountOpen(ctx, class)
	if err != nil {
		return data, err
	}

	entries, err := uc.entryRepo.ListByEntryWindow(ctx, class, start, end)
	if err != nil {
		return data, err
	}

	closed, err := uc.entryRepo.ListClosedByExitWindow(ctx, class, start, end)
	if err != nil {
		return data, err
	}

	data.open = open
	data.entries = entries
	data.closed = closed

	return data, nil
}

// BuildReport produces the full aggregation for a window. Zero matching
// records yields zero-valued metrics and an all-zero series, never an error.
func (uc *ReportUseCase) BuildReport(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	two, err := uc.loadClass(ctx, domain.TwoWheeler, start, end)
	if err != nil {
		return nil, err
	}

	four, err := uc.loadClass(ctx, domain.FourWheeler, start, end)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		Start:       start,
		End:         end,
		GeneratedAt: time.Now().UTC(),
		TwoWheeler:  classMetrics(two),
		FourWheeler: classMetrics(four),
	}

	report.DailyRevenue = dailyRevenue(two.closed, four.closed, start, end)
	report.HourlyTrend = hourlyTrend(two.entries, four.entries, start.Location())

	return report, nil
}

func classMetrics(data classData) domain.ClassMetrics {
	return domain.ClassMetrics{
		OpenCount:  data.open,
		EntryCount: len(data.entries),
		Revenue:    sumAmounts(data.closed),
	}
}

func sumAmounts(closed []*domain.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range closed {
		if e.Amount != nil {
			total = total.Add(*e.Amount)
		}
	}

	return total
}

// dailyRevenue buckets closed entries by the calendar day of their exit,
// one point per day in [start, end] inclusive at local midnight boundaries.
func dailyRevenue(twoClosed, fourClosed []*domain.Entry, start, end time.Time) []domain.DailyRevenuePoint {
	loc := start.Location()
	day := truncateToDay(start, loc)
	last := truncateToDay(end, loc)

	var series []domain.DailyRevenuePoint
	for !day.After(last) {
		next := day.AddDate(0, 0, 1)

		series = append(series, domain.DailyRevenuePoint{
			Day:                day,
			TwoWheelerRevenue:  revenueBetween(twoClosed, day, next),
			FourWheelerRevenue: revenueBetween(fourClosed, day, next),
		})

		day = next
	}

	return series
}

func revenueBetween(closed []*domain.Entry, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range closed {
		if e.ExitTime == nil || e.Amount == nil {
			continue
		}

		exit := *e.ExitTime
		if !exit.Before(from) && exit.Before(to) {
			total = total.Add(*e.Amount)
		}
	}

	return total
}

// hourlyTrend counts entries per hour-of-day bucket over the whole window.
func hourlyTrend(twoEntries, fourEntries []*domain.Entry, loc *time.Location) [24]domain.HourlyBucket {
	var buckets [24]domain.HourlyBucket
	for h := range buckets {
		buckets[h].Hour = h
	}

	for _, e := range twoEntries {
		buckets[e.EntryTime.In(loc).Hour()].TwoWheeler++
	}

	for _, e := range fourEntries {
		buckets[e.EntryTime.In(loc).Hour()].FourWheeler++
	}

	return buckets
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ExportData carries everything the spreadsheet exporter needs: the
// aggregated report plus the raw rows per class for the same window.
type ExportData struct {
	Report          *domain.Report
	TwoWheelerRows  []*domain.Entry
	FourWheelerRows []*domain.Entry
}

// BuildExport assembles the export dataset for a window.
func (uc *ReportUseCase) BuildExport(ctx context.Context, start, end time.Time) (*ExportData, error) {
	report, err := uc.BuildReport(ctx, start, end)
	if err != nil {
		return nil, err
	}

	twoRows, err := uc.entryRepo.ListByEntryWindow(ctx, domain.TwoWheeler, start, end)
	if err != nil {
		return nil, err
	}

	fourRows, err := uc.entryRepo.ListByEntryWindow(ctx, domain.FourWheeler, start, end)
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Report:          report,
		TwoWheelerRows:  twoRows,
		FourWheelerRows: fourRows,
	}, nil
}

// DashboardStats is the "now" snapshot shown on the landing view.
type DashboardStats struct {
	TwoWheelerOpen  int             `json:"two_wheeler_open"`
	FourWheelerOpen int             `json:"four_wheeler_open"`
	TotalOpen       int             `json:"total_open"`
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
}

// GetDashboardStats returns open counts per class plus today's revenue,
// served from cache when fresh.
func (uc *ReportUseCase) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	const cacheKey = "dashboard_stats"

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	twoOpen, err := uc.entryRepo.CountOpen(ctx, domain.TwoWheeler)
	if err != nil {
		return nil, err
	}

	fourOpen, err := uc.entryRepo.CountOpen(ctx, domain.FourWheeler)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := truncateToDay(now, now.Location())

	twoClosed, err := uc.entryRepo.ListClosedByExitWindow(ctx, domain.TwoWheeler, midnight, now)
	if err != nil {
		return nil, err
	}

	fourClosed, err := uc.entryRepo.ListClosedByExitWindow(ctx, domain.FourWheeler, midnight, now)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TwoWheelerOpen:  twoOpen,
		FourWheelerOpen: fourOpen,
		TotalOpen:       twoOpen + fourOpen,
		TodayRevenue:    sumAmounts(twoClosed).Add(sumAmounts(fourClosed)),
	}

	if uc.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(payload), StatsCacheTTL)
		}
	}

	return stats, nil
}
