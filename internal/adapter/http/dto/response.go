package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/domain"
)

// EntryResponse represents a parking entry in API responses.
type EntryResponse struct {
	ID           string           `json:"id"`
	TokenID      string           `json:"token_id"`
	VehicleClass string           `json:"vehicle_class"`
	VehicleNo    string           `json:"vehicle_no"`
	PhoneNumber  string           `json:"phone_number,omitempty"`
	EntryTime    time.Time        `json:"entry_time"`
	ExitTime     *time.Time       `json:"exit_time,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		TokenID:      e.TokenID,
		VehicleClass: string(e.VehicleClass),
		VehicleNo:    e.VehicleNo,
		PhoneNumber:  e.PhoneNumber,
		EntryTime:    e.EntryTime,
		ExitTime:     e.ExitTime,
		Amount:       e.Amount,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ClassMetricsResponse represents per-class aggregates in a report.
type ClassMetricsResponse struct {
	OpenCount  int             `json:"open_count"`
	EntryCount int             `json:"entry_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// DailyRevenueResponse is one day of the revenue series.
type DailyRevenueResponse struct {
	Day                string          `json:"day"`
	TwoWheelerRevenue  decimal.Decimal `json:"two_wheeler_revenue"`
	FourWheelerRevenue decimal.Decimal `json:"four_wheeler_revenue"`
}

// HourlyBucketResponse counts entries for one hour of day.
type HourlyBucketResponse struct {
	Hour        int `json:"hour"`
	TwoWheeler  int `json:"two_wheeler"`
	FourWheeler int `json:"four_wheeler"`
}

// ChartSetResponse carries the report charts as base64-encoded PNGs.
type ChartSetResponse struct {
	DailyRevenue      string `json:"daily_revenue"`
	ClassDistribution string `json:"class_distribution"`
	HourlyTrend       string `json:"hourly_trend"`
}

// ReportResponse represents the aggregation result for a window.
type ReportResponse struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	GeneratedAt time.Time `json:"generated_at"`

	TwoWheeler  ClassMetricsResponse `json:"two_wheeler"`
	FourWheeler ClassMetricsResponse `json:"four_wheeler"`

	TotalOpen    int             `json:"total_open"`
	TotalEntries int             `json:"total_entries"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	DailyRevenue []DailyRevenueResponse `json:"daily_revenue"`
	HourlyTrend  []HourlyBucketResponse `json:"hourly_trend"`

	Charts *ChartSetResponse `json:"charts,omitempty"`
}

// ReportFromDomain converts a domain report to a response.
func ReportFromDomain(r *domain.Report) *ReportResponse {
	daily := make([]DailyRevenueResponse, len(r.DailyRevenue))
	for i, p := range r.DailyRevenue {
		daily[i] = DailyRevenueResponse{
			Day:                p.Day.Format("2006-01-02"),
			TwoWheelerRevenue:  p.TwoWheelerRevenue,
			FourWheelerRevenue: p.FourWheelerRevenue,
		}
	}

	hourly := make([]HourlyBucketResponse, len(r.HourlyTrend))
	for i, b := range r.HourlyTrend {
		hourly[i] = HourlyBucketResponse{
			Hour:        b.Hour,
			TwoWheeler:  b.TwoWheeler,
			FourWheeler: b.FourWheeler,
		}
	}

	return &ReportResponse{
		Start:        r.Start,
		End:          r.End,
		GeneratedAt:  r.GeneratedAt,
		TwoWheeler:   classMetricsFromDomain(r.TwoWheeler),
		FourWheeler:  classMetricsFromDomain(r.FourWheeler),
		TotalOpen:    r.TotalOpen(),
		TotalEntries: r.TotalEntries(),
		TotalRevenue: r.TotalRevenue(),
		DailyRevenue: daily,
		HourlyTrend:  hourly,
	}
}

func classMetricsFromDomain(m domain.ClassMetrics) ClassMetricsResponse {
	return ClassMetricsResponse{
		OpenCount:  m.OpenCount,
		EntryCount: m.EntryCount,
		Revenue:    m.Revenue,
	}
}

// UserResponse represents a staff user in API responses.
type UserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name,omitempty"`
	Role     domain.Role `json:"role"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// AuditLogResponse represents one audit trail row.
type AuditLogResponse struct {
	ID           string           `json:"id"`
	Actor        string           `json:"actor"`
	Action       string           `json:"action"`
	TokenID      string           `json:"token_id"`
	VehicleClass string           `json:"vehicle_class"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit rows to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			Actor:        l.Actor,
			Action:       l.Action,
			TokenID:      l.TokenID,
			VehicleClass: string(l.VehicleClass),
			Amount:       l.Amount,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
