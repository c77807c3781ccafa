package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/parklot/internal/domain"
)

// UserUseCase handles staff user management.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// CreateUserInput represents input for creating a staff user.
type CreateUserInput struct {
	Username string
	Name     string
	Password string
	Role     domain.Role
}

// CreateUser creates a new staff user with a hashed password.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidUserInput)
	}

	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidUserInput)
	}

	if !input.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidUserInput, input.Role)
	}

	if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Username:       username,
		Name:           input.Name,
		HashedPassword: string(hash),
		Role:           input.Role,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	Username string
	Password string
}

// Authenticate verifies staff credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}
