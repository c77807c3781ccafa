package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBilledHours(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		duration  time.Duration
		wantHours int64
	}{
		{name: "one second bills one hour", duration: time.Second, wantHours: 1},
		{name: "zero duration bills one hour", duration: 0, wantHours: 1},
		{name: "five minutes bills one hour", duration: 5 * time.Minute, wantHours: 1},
		{name: "exactly one hour bills one hour", duration: time.Hour, wantHours: 1},
		{name: "one hour one second bills two hours", duration: time.Hour + time.Second, wantHours: 2},
		{name: "exactly three hours bills three hours", duration: 3 * time.Hour, wantHours: 3},
		{name: "two hours one minute bills three hours", duration: 2*time.Hour + time.Minute, wantHours: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := BilledHours(base, base.Add(tt.duration))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hours != tt.wantHours {
				t.Errorf("BilledHours(%v) = %d, want %d", tt.duration, hours, tt.wantHours)
			}
		})
	}
}

func TestBilledHoursInvalidInterval(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := BilledHours(base, base.Add(-time.Minute))
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestCalculateAmount(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		entry      time.Time
		exit       time.Time
		rate       int64
		wantAmount int64
	}{
		{
			name:       "five minute stay at 30 per hour",
			entry:      day.Add(9 * time.Hour),
			exit:       day.Add(9*time.Hour + 5*time.Minute),
			rate:       30,
			wantAmount: 30,
		},
		{
			name:       "two hours one minute at 30 per hour",
			entry:      day.Add(9 * time.Hour),
			exit:       day.Add(11*time.Hour + time.Minute),
			rate:       30,
			wantAmount: 90,
		},
		{
			name:       "exactly one hour at 50 per hour",
			entry:      day.Add(9 * time.Hour),
			exit:       day.Add(10 * time.Hour),
			rate:       50,
			wantAmount: 50,
		},
		{
			name:       "3601 seconds at 50 per hour",
			entry:      day.Add(9 * time.Hour),
			exit:       day.Add(9*time.Hour + 3601*time.Second),
			rate:       50,
			wantAmount: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := CalculateAmount(tt.entry, tt.exit, decimal.NewFromInt(tt.rate))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !amount.Equal(decimal.NewFromInt(tt.wantAmount)) {
				t.Errorf("CalculateAmount() = %s, want %d", amount, tt.wantAmount)
			}
		})
	}
}

func TestCalculateAmountRejectsNegativeInterval(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := CalculateAmount(base, base.Add(-time.Hour), decimal.NewFromInt(30))
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestEntryClose(t *testing.T) {
	entryTime := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	exitTime := entryTime.Add(90 * time.Minute)

	e := &Entry{
		TokenID:      "TWABC123",
		VehicleClass: TwoWheeler,
		VehicleNo:    "KA01AB1234",
		EntryTime:    entryTime,
	}

	if !e.IsOpen() {
		t.Fatal("new entry should be open")
	}

	if err := e.Close(exitTime, decimal.NewFromInt(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.IsOpen() {
		t.Error("closed entry should not be open")
	}
	if e.Amount == nil || !e.Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected amount 60, got %v", e.Amount)
	}

	// Second close must fail with the merged not-found semantics.
	if err := e.Close(exitTime.Add(time.Hour), decimal.NewFromInt(30)); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound on double close, got %v", err)
	}
}
