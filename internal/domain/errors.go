package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound   = errors.New("no open entry for token")
	ErrInvalidInterval = errors.New("exit time precedes entry time")
	ErrTokenExhausted  = errors.New("token generation retries exhausted")
	ErrDuplicateToken  = errors.New("token already exists")

	// Validation errors
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")
	ErrInvalidVehicleNo    = errors.New("invalid vehicle number")
	ErrInvalidPhoneNumber  = errors.New("invalid phone number")

	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidUserInput = errors.New("invalid user input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
)
