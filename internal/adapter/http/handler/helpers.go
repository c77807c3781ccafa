package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/parklot/internal/adapter/http/dto"
	"github.com/iho/parklot/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidVehicleClass):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidVehicleNo):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPhoneNumber):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidInterval):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidUserInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTokenExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
