package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/infrastructure/metrics"
)

// Rates maps each vehicle class to its hourly rate.
type Rates map[domain.VehicleClass]decimal.Decimal

// RateFor returns the hourly rate for a class.
func (r Rates) RateFor(class domain.VehicleClass) decimal.Decimal {
	return r[class]
}

// ParkingUseCase orchestrates the entry/exit workflow.
type ParkingUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	auditRepo AuditRepository
	tokenGen  TokenGenerator
	idGen     IDGenerator
	rates     Rates
	retry     RetryPolicy
	metrics   *metrics.Metrics
}

// NewParkingUseCase creates a new ParkingUseCase. auditRepo, retry and
// metrics may be nil.
func NewParkingUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	tokenGen TokenGenerator,
	idGen IDGenerator,
	rates Rates,
	retry RetryPolicy,
	metrics *metrics.Metrics,
) *ParkingUseCase {
	return &ParkingUseCase{
		txManager: txManager,
		entryRepo: entryRepo,
		auditRepo: auditRepo,
		tokenGen:  tokenGen,
		idGen:     idGen,
		rates:     rates,
		retry:     retry,
		metrics:   metrics,
	}
}

// CreateEntryInput represents input for recording a vehicle entry.
type CreateEntryInput struct {
	VehicleClass domain.VehicleClass
	VehicleNo    string
	PhoneNumber  string
}

// CreateEntry records a new open entry. The token uniqueness check and the
// reservation are a single atomic insert: on a duplicate token the insert
// fails and a fresh token is drawn, up to MaxTokenAttempts.
func (uc *ParkingUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	if !input.VehicleClass.IsValid() {
		return nil, domain.ErrInvalidVehicleClass
	}

	if err := domain.ValidateVehicleNo(input.VehicleNo); err != nil {
		return nil, err
	}

	if err := domain.ValidatePhoneNumber(input.PhoneNumber); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prefix := input.VehicleClass.TokenPrefix()

	for attempt := 0; attempt < MaxTokenAttempts; attempt++ {
		entry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			TokenID:      uc.tokenGen.Generate(prefix),
			VehicleClass: input.VehicleClass,
			VehicleNo:    strings.TrimSpace(input.VehicleNo),
			PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
			EntryTime:    now,
			CreatedAt:    now,
		}

		err := uc.entryRepo.Create(ctx, entry)
		if err == nil {
			if uc.auditRepo != nil {
				if err := uc.auditRepo.Create(ctx, uc.newAuditLog(ctx, domain.AuditActionEntryCreate, entry)); err != nil {
					return nil, err
				}
			}

			if uc.metrics != nil {
				uc.metrics.EntriesCreated.WithLabelValues(string(input.VehicleClass)).Inc()
				uc.metrics.OpenEntries.WithLabelValues(string(input.VehicleClass)).Inc()
			}
			return entry, nil
		}

		if !errors.Is(err, domain.ErrDuplicateToken) {
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.TokenRetries.Inc()
		}
	}

	if uc.metrics != nil {
		uc.metrics.TokenExhausted.Inc()
	}
	return nil, domain.ErrTokenExhausted
}

// LookupOpen fetches the open entry for a token, for exit confirmation.
// Unknown tokens and already-closed tokens produce the same
// domain.ErrEntryNotFound.
func (uc *ParkingUseCase) LookupOpen(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	if !class.IsValid() {
		return nil, domain.ErrInvalidVehicleClass
	}

	if err := domain.ValidateTokenID(tokenID); err != nil {
		return nil, err
	}

	return uc.entryRepo.GetOpenByToken(ctx, class, tokenID)
}

// ProcessExit closes the open entry for a token, setting exit_time and the
// computed amount together. The open row is locked for the transition, so
// of two concurrent exit requests only one commits; the loser observes no
// open row and fails with domain.ErrEntryNotFound. Deadlocked settlement
// transactions are rerun through the retry policy.
func (uc *ParkingUseCase) ProcessExit(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	if !class.IsValid() {
		return nil, domain.ErrInvalidVehicleClass
	}

	if err := domain.ValidateTokenID(tokenID); err != nil {
		return nil, err
	}

	var entry *domain.Entry

	settle := func() error {
		settled, err := uc.settleExit(ctx, class, tokenID)
		if err != nil {
			return err
		}

		entry = settled
		return nil
	}

	var err error
	if uc.retry != nil {
		err = uc.retry.Retry(ctx, settle)
	} else {
		err = settle()
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExitsProcessed.WithLabelValues(string(class)).Inc()
		uc.metrics.OpenEntries.WithLabelValues(string(class)).Dec()
		uc.metrics.FeeCollected.WithLabelValues(string(class)).Add(entry.Amount.InexactFloat64())
		if hours, err := domain.BilledHours(entry.EntryTime, *entry.ExitTime); err == nil {
			uc.metrics.StayDuration.WithLabelValues(string(class)).Observe(float64(hours))
		}
	}

	return entry, nil
}

// settleExit is one settlement attempt: a single transaction locking the
// open row, closing it, and writing the audit row.
func (uc *ParkingUseCase) settleExit(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := uc.entryRepo.GetOpenByTokenForUpdate(ctx, tx, class, tokenID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := entry.Close(now, uc.rates.RateFor(class)); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Close(ctx, tx, entry.ID, *entry.ExitTime, *entry.Amount); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		if err := uc.auditRepo.CreateTx(ctx, tx, uc.newAuditLog(ctx, domain.AuditActionExitSettle, entry)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *ParkingUseCase) newAuditLog(ctx context.Context, action string, entry *domain.Entry) *domain.AuditLog {
	actor := domain.ActorSystem
	if user, ok := domain.UserFromContext(ctx); ok {
		actor = user.Username
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		TokenID:      entry.TokenID,
		VehicleClass: entry.VehicleClass,
		Amount:       entry.Amount,
		CreatedAt:    time.Now().UTC(),
	}
}

// AuditTrail lists audit rows, newest first, optionally filtered to one
// token. A zero or out-of-range limit falls back to DefaultAuditPageSize.
func (uc *ParkingUseCase) AuditTrail(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error) {
	if uc.auditRepo == nil {
		return nil, nil
	}

	if limit <= 0 || limit > MaxAuditPageSize {
		limit = DefaultAuditPageSize
	}

	if tokenID != "" {
		if err := domain.ValidateTokenID(tokenID); err != nil {
			return nil, err
		}

		return uc.auditRepo.ListByToken(ctx, tokenID, limit)
	}

	return uc.auditRepo.ListRecent(ctx, limit)
}
