package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

const advanceColumns = `id, lease_id, amount, remaining_balance, status, payment_method, reference,
	notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at`

// AdvanceRepository implements usecase.AdvanceRepository.
type AdvanceRepository struct {
	db *sql.DB
}

// NewAdvanceRepository creates a new AdvanceRepository.
func NewAdvanceRepository(db *sql.DB) *AdvanceRepository {
	return &AdvanceRepository{db: db}
}

// Create inserts an advance within a transaction.
func (r *AdvanceRepository) Create(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	_, err := sqlTx(tx).ExecContext(ctx, `
		INSERT INTO advances (`+advanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		advance.ID,
		advance.LeaseID,
		advance.Amount.String(),
		advance.RemainingBalance.String(),
		string(advance.Status),
		advance.PaymentMethod,
		advance.Reference,
		advance.Notes,
		formatTimestamp(advance.PaidDate),
		nullString(advance.TransferredFromID),
		nullString(advance.TransferredToID),
		formatTimestamp(advance.CreatedAt),
		formatTimestamp(advance.UpdatedAt),
	)
	return err
}

// GetByID retrieves an advance by ID.
func (r *AdvanceRepository) GetByID(ctx context.Context, id string) (*domain.Advance, error) {
	return getAdvance(ctx, r.db, id)
}

// GetByIDForUpdate reads the advance inside tx. The transaction already holds the write lock.
func (r *AdvanceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Advance, error) {
	return getAdvance(ctx, sqlTx(tx), id)
}

// ListActiveByLeaseForUpdate returns the lease's ACTIVE advances in FIFO order.
func (r *AdvanceRepository) ListActiveByLeaseForUpdate(ctx context.Context, tx usecase.Transaction, leaseID string) ([]*domain.Advance, error) {
	return queryAdvances(ctx, sqlTx(tx), `
		SELECT `+advanceColumns+` FROM advances
		WHERE lease_id = ? AND status = 'ACTIVE'
		ORDER BY paid_date, id`, leaseID)
}

// ListByLease lists a lease's advances, optionally filtered by status.
func (r *AdvanceRepository) ListByLease(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error) {
	if status == "" {
		return queryAdvances(ctx, r.db, `
			SELECT `+advanceColumns+` FROM advances
			WHERE lease_id = ?
			ORDER BY paid_date, id`, leaseID)
	}

	return queryAdvances(ctx, r.db, `
		SELECT `+advanceColumns+` FROM advances
		WHERE lease_id = ? AND status = ?
		ORDER BY paid_date, id`, leaseID, string(status))
}

// List returns advances page by page.
func (r *AdvanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.Advance, error) {
	return queryAdvances(ctx, r.db, `
		SELECT `+advanceColumns+` FROM advances
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`, limit, offset)
}

// SumActiveByLease totals the remaining balance of the lease's ACTIVE advances. Amounts are
// stored as text, so they are summed with decimal arithmetic rather than SQL SUM.
func (r *AdvanceRepository) SumActiveByLease(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT remaining_balance FROM advances WHERE lease_id = ? AND status = 'ACTIVE'`, leaseID)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var remaining string
		if err := rows.Scan(&remaining); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(parseDecimal(remaining))
	}

	return total, rows.Err()
}

// ListLeaseIDsWithActive returns every lease holding at least one ACTIVE advance.
func (r *AdvanceRepository) ListLeaseIDsWithActive(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT lease_id FROM advances WHERE status = 'ACTIVE' ORDER BY lease_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Update writes the mutable advance fields.
func (r *AdvanceRepository) Update(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	_, err := sqlTx(tx).ExecContext(ctx, `
		UPDATE advances
		SET remaining_balance = ?, status = ?, notes = ?, transferred_to_id = ?, updated_at = ?
		WHERE id = ?`,
		advance.RemainingBalance.String(),
		string(advance.Status),
		advance.Notes,
		nullString(advance.TransferredToID),
		formatTimestamp(advance.UpdatedAt),
		advance.ID,
	)
	return err
}

func getAdvance(ctx context.Context, q dbtx, id string) (*domain.Advance, error) {
	row := q.QueryRowContext(ctx, `SELECT `+advanceColumns+` FROM advances WHERE id = ?`, id)

	advance, err := scanAdvance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdvanceNotFound
	}
	return advance, err
}

func queryAdvances(ctx context.Context, q dbtx, query string, args ...any) ([]*domain.Advance, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advances := []*domain.Advance{}
	for rows.Next() {
		advance, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, advance)
	}

	return advances, rows.Err()
}

func scanAdvance(row rowScanner) (*domain.Advance, error) {
	var (
		a                          domain.Advance
		amount, remaining, status  string
		paidDate, created, updated string
		fromID, toID               sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.LeaseID,
		&amount,
		&remaining,
		&status,
		&a.PaymentMethod,
		&a.Reference,
		&a.Notes,
		&paidDate,
		&fromID,
		&toID,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	a.Amount = parseDecimal(amount)
	a.RemainingBalance = parseDecimal(remaining)
	a.Status = domain.AdvanceStatus(status)
	a.PaidDate = parseTimestamp(paidDate)
	a.TransferredFromID = fromID.String
	a.TransferredToID = toID.String
	a.CreatedAt = parseTimestamp(created)
	a.UpdatedAt = parseTimestamp(updated)

	return &a, nil
}
