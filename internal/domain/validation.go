package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxVehicleNoLength   = 20
	MaxPhoneNumberLength = 15
	TokenSuffixLength    = 6
)

var (
	vehicleNoRegex = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)
	phoneRegex     = regexp.MustCompile(`^\+?[0-9][0-9 -]*$`)
	tokenRegex     = regexp.MustCompile(`^(TW|FW)[A-Z0-9]{6}$`)
)

// ValidateVehicleNo validates a vehicle registration number.
func ValidateVehicleNo(vehicleNo string) error {
	vehicleNo = strings.TrimSpace(vehicleNo)

	if vehicleNo == "" {
		return fmt.Errorf("%w: vehicle number cannot be empty", ErrInvalidVehicleNo)
	}

	if len(vehicleNo) > MaxVehicleNoLength {
		return fmt.Errorf("%w: vehicle number exceeds %d characters", ErrInvalidVehicleNo, MaxVehicleNoLength)
	}

	if !vehicleNoRegex.MatchString(vehicleNo) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidVehicleNo)
	}

	return nil
}

// ValidatePhoneNumber validates an optional contact number. Empty is allowed.
func ValidatePhoneNumber(phone string) error {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return nil
	}

	if len(phone) > MaxPhoneNumberLength {
		return fmt.Errorf("%w: phone number exceeds %d characters", ErrInvalidPhoneNumber, MaxPhoneNumberLength)
	}

	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidPhoneNumber)
	}

	return nil
}

// ValidateTokenID validates the shape of a parking token.
func ValidateTokenID(tokenID string) error {
	if !tokenRegex.MatchString(tokenID) {
		return ErrEntryNotFound
	}
	return nil
}
