package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleClass distinguishes the two ledgers.
type VehicleClass string

const (
	TwoWheeler  VehicleClass = "two_wheeler"
	FourWheeler VehicleClass = "four_wheeler"
)

// IsValid reports whether the class is one of the known values.
func (c VehicleClass) IsValid() bool {
	return c == TwoWheeler || c == FourWheeler
}

// TokenPrefix returns the class prefix used in token IDs.
func (c VehicleClass) TokenPrefix() string {
	if c == FourWheeler {
		return "FW"
	}
	return "TW"
}

// Label returns a human-readable class name.
func (c VehicleClass) Label() string {
	if c == FourWheeler {
		return "Four Wheeler"
	}
	return "Two Wheeler"
}

// Entry is a single parking ledger record. An entry is open while ExitTime
// is nil; ExitTime and Amount are set together exactly once at exit.
type Entry struct {
	ID           string
	TokenID      string
	VehicleClass VehicleClass
	VehicleNo    string
	PhoneNumber  string
	EntryTime    time.Time
	ExitTime     *time.Time
	Amount       *decimal.Decimal
	CreatedAt    time.Time
}

// IsOpen reports whether the vehicle is still parked.
func (e *Entry) IsOpen() bool {
	return e.ExitTime == nil
}

// Close transitions the entry to the closed state. It returns
// ErrEntryNotFound if the entry is already closed and ErrInvalidInterval
// if exitTime precedes the entry time.
func (e *Entry) Close(exitTime time.Time, ratePerHour decimal.Decimal) error {
	if !e.IsOpen() {
		return ErrEntryNotFound
	}

	amount, err := CalculateAmount(e.EntryTime, exitTime, ratePerHour)
	if err != nil {
		return err
	}

	e.ExitTime = &exitTime
	e.Amount = &amount

	return nil
}
