package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

const paymentColumns = `id, lease_id, payment_type, amount, advance_covered, status, due_date,
	paid_date, payment_method, reference, notes`

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create stores a payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	now := formatTimestamp(nowUTC())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.LeaseID,
		payment.Type,
		payment.Amount.String(),
		payment.AdvanceCovered.String(),
		string(payment.Status),
		formatDate(payment.DueDate),
		optionalTimestamp(payment.PaidDate),
		payment.PaymentMethod,
		payment.Reference,
		payment.Notes,
		now,
		now,
	)
	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return getPayment(ctx, r.db, id)
}

// GetByIDForUpdate reads the payment inside tx.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	return getPayment(ctx, sqlTx(tx), id)
}

// ListPendingByLease returns unpaid payments by due date, then id.
func (r *PaymentRepository) ListPendingByLease(ctx context.Context, leaseID string) ([]*domain.Payment, error) {
	return queryPayments(ctx, r.db, `
		SELECT `+paymentColumns+` FROM payments
		WHERE lease_id = ? AND status <> 'Paid'
		ORDER BY due_date, id`, leaseID)
}

// ListOvercovered returns payments whose advance coverage exceeds their amount.
func (r *PaymentRepository) ListOvercovered(ctx context.Context) ([]*domain.Payment, error) {
	candidates, err := queryPayments(ctx, r.db, `
		SELECT `+paymentColumns+` FROM payments
		WHERE advance_covered <> '0'
		ORDER BY due_date, id`)
	if err != nil {
		return nil, err
	}

	overcovered := []*domain.Payment{}
	for _, p := range candidates {
		if p.AdvanceCovered.GreaterThan(p.Amount) {
			overcovered = append(overcovered, p)
		}
	}

	return overcovered, nil
}

// UpdateSettlement writes coverage, status and the settlement fields.
func (r *PaymentRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	_, err := sqlTx(tx).ExecContext(ctx, `
		UPDATE payments
		SET advance_covered = ?, status = ?, paid_date = ?, payment_method = ?, reference = ?,
		    notes = ?, updated_at = ?
		WHERE id = ?`,
		payment.AdvanceCovered.String(),
		string(payment.Status),
		optionalTimestamp(payment.PaidDate),
		payment.PaymentMethod,
		payment.Reference,
		payment.Notes,
		formatTimestamp(nowUTC()),
		payment.ID,
	)
	return err
}

func getPayment(ctx context.Context, q dbtx, id string) (*domain.Payment, error) {
	row := q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)

	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, err
}

func queryPayments(ctx context.Context, q dbtx, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		p                               domain.Payment
		amount, covered, status, dueDay string
		paidDate                        sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.LeaseID,
		&p.Type,
		&amount,
		&covered,
		&status,
		&dueDay,
		&paidDate,
		&p.PaymentMethod,
		&p.Reference,
		&p.Notes,
	)
	if err != nil {
		return nil, err
	}

	p.Amount = parseDecimal(amount)
	p.AdvanceCovered = parseDecimal(covered)
	p.Status = domain.PaymentStatus(status)
	p.DueDate = parseDate(dueDay)
	p.PaidDate = timestampPtr(paidDate)

	return &p, nil
}
