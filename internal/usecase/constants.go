package usecase

import "time"

const (
	// MaxTokenAttempts bounds the insert-with-retry loop in token
	// generation. The 36^6 suffix space makes collisions rare; hitting
	// this cap means something is wrong, not bad luck.
	MaxTokenAttempts = 5

	// StatsCacheTTL is how long dashboard stats are served from cache.
	StatsCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultAuditPageSize is the audit trail page size when the caller
	// does not ask for one; MaxAuditPageSize caps what they may ask for.
	DefaultAuditPageSize = 50
	MaxAuditPageSize     = 200
)
