package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// EntryRepository implements usecase.EntryRepository over the
// parking_entries table. The unique index on token_id is what makes the
// token check-and-reserve atomic.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, token_id, vehicle_class, vehicle_no, phone_number, entry_time, exit_time, amount, created_at`

// Create inserts a new open entry. A token collision surfaces as
// domain.ErrDuplicateToken so the caller can redraw.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO parking_entries (id, token_id, vehicle_class, vehicle_no, phone_number, entry_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		entry.TokenID,
		string(entry.VehicleClass),
		entry.VehicleNo,
		textOrNull(entry.PhoneNumber),
		timeToPgTimestamptz(entry.EntryTime),
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateToken
		}

		return err
	}

	return nil
}

// GetOpenByToken fetches the open entry for a token within a class.
func (r *EntryRepository) GetOpenByToken(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM parking_entries
		WHERE token_id = $1 AND vehicle_class = $2 AND exit_time IS NULL`,
		tokenID, string(class),
	)

	return scanEntry(row)
}

// GetOpenByTokenForUpdate locks the open row for the exit transition.
func (r *EntryRepository) GetOpenByTokenForUpdate(ctx context.Context, tx usecase.Transaction, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM parking_entries
		WHERE token_id = $1 AND vehicle_class = $2 AND exit_time IS NULL
		FOR UPDATE`,
		tokenID, string(class),
	)

	return scanEntry(row)
}

// Close sets exit_time and amount together on an open row. The exit_time
// IS NULL guard means a concurrent closer that lost the race affects zero
// rows and reports domain.ErrEntryNotFound.
func (r *EntryRepository) Close(ctx context.Context, tx usecase.Transaction, id string, exitTime time.Time, amount decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE parking_entries
		SET exit_time = $2, amount = $3
		WHERE id = $1 AND exit_time IS NULL`,
		id,
		timeToPgTimestamptz(exitTime),
		decimalToNumeric(amount),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// CountOpen counts currently-parked vehicles of a class.
func (r *EntryRepository) CountOpen(ctx context.Context, class domain.VehicleClass) (int, error) {
	var count int

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM parking_entries
		WHERE vehicle_class = $1 AND exit_time IS NULL`,
		string(class),
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ListByEntryWindow returns entries of a class with entry_time in [start, end).
func (r *EntryRepository) ListByEntryWindow(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM parking_entries
		WHERE vehicle_class = $1 AND entry_time >= $2 AND entry_time < $3
		ORDER BY entry_time`,
		string(class),
		timeToPgTimestamptz(start),
		timeToPgTimestamptz(end),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListClosedByExitWindow returns closed entries of a class with exit_time
// in [start, end).
func (r *EntryRepository) ListClosedByExitWindow(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM parking_entries
		WHERE vehicle_class = $1 AND exit_time IS NOT NULL AND exit_time >= $2 AND exit_time < $3
		ORDER BY exit_time`,
		string(class),
		timeToPgTimestamptz(start),
		timeToPgTimestamptz(end),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry     domain.Entry
		class     string
		phone     pgtype.Text
		entryTime pgtype.Timestamptz
		exitTime  pgtype.Timestamptz
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.TokenID,
		&class,
		&entry.VehicleNo,
		&phone,
		&entryTime,
		&exitTime,
		&amount,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.VehicleClass = domain.VehicleClass(class)
	entry.PhoneNumber = phone.String
	entry.EntryTime = entryTime.Time
	entry.CreatedAt = createdAt.Time

	if exitTime.Valid {
		t := exitTime.Time
		entry.ExitTime = &t
	}

	if amount.Valid {
		d := numericToDecimal(amount)
		entry.Amount = &d
	}

	return &entry, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
