package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository over the audit_logs
// table.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditColumns = `id, actor, action, token_id, vehicle_class, amount, created_at`

const auditInsert = `
	INSERT INTO audit_logs (id, actor, action, token_id, vehicle_class, amount, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create inserts an audit row outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx, auditInsert, auditArgs(log)...)
	return err
}

// CreateTx inserts an audit row inside an existing transaction, so the
// row commits or rolls back with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, auditInsert, auditArgs(log)...)
	return err
}

func auditArgs(log *domain.AuditLog) []any {
	var amount any
	if log.Amount != nil {
		amount = decimalToNumeric(*log.Amount)
	}

	return []any{
		log.ID,
		log.Actor,
		log.Action,
		log.TokenID,
		string(log.VehicleClass),
		amount,
		timeToPgTimestamptz(log.CreatedAt),
	}
}

// ListByToken returns the newest audit rows for one token.
func (r *AuditRepository) ListByToken(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		WHERE token_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		tokenID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// ListRecent returns the newest audit rows across all tokens.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog

	for rows.Next() {
		var (
			log       domain.AuditLog
			class     string
			amount    pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&log.ID,
			&log.Actor,
			&log.Action,
			&log.TokenID,
			&class,
			&amount,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		log.VehicleClass = domain.VehicleClass(class)
		log.CreatedAt = createdAt.Time

		if amount.Valid {
			d := numericToDecimal(amount)
			log.Amount = &d
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
