package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerHour = 3600

// BilledHours converts a parking duration into whole billed hours: the
// duration rounded up to the next hour, with a floor of one hour.
func BilledHours(entryTime, exitTime time.Time) (int64, error) {
	if exitTime.Before(entryTime) {
		return 0, ErrInvalidInterval
	}

	seconds := int64(exitTime.Sub(entryTime) / time.Second)

	hours := (seconds + secondsPerHour - 1) / secondsPerHour
	if hours < 1 {
		hours = 1
	}

	return hours, nil
}

// CalculateAmount computes the parking fee for a stay at the given hourly
// rate. It is pure: no I/O, and the only error is ErrInvalidInterval when
// exitTime precedes entryTime.
func CalculateAmount(entryTime, exitTime time.Time, ratePerHour decimal.Decimal) (decimal.Decimal, error) {
	hours, err := BilledHours(entryTime, exitTime)
	if err != nil {
		return decimal.Zero, err
	}

	return ratePerHour.Mul(decimal.NewFromInt(hours)), nil
}
