package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassMetrics holds the aggregates for one vehicle class over a window.
type ClassMetrics struct {
	OpenCount  int
	EntryCount int
	Revenue    decimal.Decimal
}

// DailyRevenuePoint is one calendar day of the revenue series.
type DailyRevenuePoint struct {
	Day                time.Time
	TwoWheelerRevenue  decimal.Decimal
	FourWheelerRevenue decimal.Decimal
}

// HourlyBucket counts entries whose entry_time falls in one hour of day.
type HourlyBucket struct {
	Hour        int
	TwoWheeler  int
	FourWheeler int
}

// Report is the full aggregation result for a time window.
type Report struct {
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time

	TwoWheeler  ClassMetrics
	FourWheeler ClassMetrics

	DailyRevenue []DailyRevenuePoint
	HourlyTrend  [24]HourlyBucket
}

// TotalRevenue sums revenue across both classes.
func (r *Report) TotalRevenue() decimal.Decimal {
	return r.TwoWheeler.Revenue.Add(r.FourWheeler.Revenue)
}

// TotalEntries sums entry counts across both classes.
func (r *Report) TotalEntries() int {
	return r.TwoWheeler.EntryCount + r.FourWheeler.EntryCount
}

// TotalOpen sums currently-parked counts across both classes.
func (r *Report) TotalOpen() int {
	return r.TwoWheeler.OpenCount + r.FourWheeler.OpenCount
}
