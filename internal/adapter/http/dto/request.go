package dto

import (
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

// CreateEntryRequest represents a request to record a vehicle entry.
// The vehicle class comes from the route, not the body.
type CreateEntryRequest struct {
	VehicleNo   string `json:"vehicle_no"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(class domain.VehicleClass) usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		VehicleClass: class,
		VehicleNo:    r.VehicleNo,
		PhoneNumber:  r.PhoneNumber,
	}
}

// LoginRequest represents a staff login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest represents a request to register a staff user.
type CreateUserRequest struct {
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Username: r.Username,
		Name:     r.Name,
		Password: r.Password,
		Role:     r.Role,
	}
}
