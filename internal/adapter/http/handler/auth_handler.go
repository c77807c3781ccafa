package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/parklot/internal/adapter/http/dto"
	"github.com/iho/parklot/internal/adapter/http/middleware"
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/infrastructure/auth"
	"github.com/iho/parklot/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	userUC     UserService
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC UserService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
	}
}

// Login authenticates a staff user and issues a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		// Same response for unknown user and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// CreateUser registers a new staff user. Admin only, enforced by the
// route middleware.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.CreateUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create user", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// GetCurrentUser returns the authenticated user from the request context.
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
