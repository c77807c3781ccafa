package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/domain"
)

// EntryRepository defines data access for the parking ledger.
type EntryRepository interface {
	// Create persists a new open entry. It returns domain.ErrDuplicateToken
	// when the token collides with an existing row in either class.
	Create(ctx context.Context, entry *domain.Entry) error
	GetOpenByToken(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error)
	// GetOpenByTokenForUpdate locks the open row for the exit transition.
	GetOpenByTokenForUpdate(ctx context.Context, tx Transaction, class domain.VehicleClass, tokenID string) (*domain.Entry, error)
	// Close sets exit_time and amount together on an open row.
	Close(ctx context.Context, tx Transaction, id string, exitTime time.Time, amount decimal.Decimal) error
	CountOpen(ctx context.Context, class domain.VehicleClass) (int, error)
	// ListByEntryWindow returns rows with entry_time in [start, end).
	ListByEntryWindow(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error)
	// ListClosedByExitWindow returns closed rows with exit_time in [start, end).
	ListClosedByExitWindow(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error)
}

// AuditRepository defines data access for the audit trail.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	// CreateTx writes an audit row inside an existing transaction.
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	ListByToken(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}

// UserRepository defines data access for staff users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// RetryPolicy reruns an operation on transient storage failures such as
// deadlocks. Implementations must pass non-transient errors through
// unchanged.
type RetryPolicy interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique surrogate row IDs.
type IDGenerator interface {
	Generate() string
}

// TokenGenerator draws candidate parking tokens for a class prefix.
// Uniqueness is enforced at insert time, not here.
type TokenGenerator interface {
	Generate(prefix string) string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
