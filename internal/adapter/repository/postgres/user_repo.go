package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/parklot/internal/domain"
)

// UserRepository implements usecase.UserRepository over staff_users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new staff user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_users (id, username, name, hashed_password, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID,
		user.Username,
		user.Name,
		user.HashedPassword,
		string(user.Role),
		user.Active,
		timeToPgTimestamptz(user.CreatedAt),
		timeToPgTimestamptz(user.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrUsernameTaken
		}

		return err
	}

	return nil
}

// GetByID retrieves a staff user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByUsername retrieves a staff user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, name, hashed_password, role, active, created_at, updated_at
		FROM staff_users `+where, arg)

	var (
		user      domain.User
		role      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.HashedPassword,
		&role,
		&user.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	user.Role = domain.Role(role)
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return &user, nil
}
