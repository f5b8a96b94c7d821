package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/postgres/generated"
	"github.com/iho/rentledger/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	queries *generated.Queries
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db generated.DBTX) *PaymentRepository {
	return &PaymentRepository{queries: generated.New(db)}
}

// Create stores a payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	now := nowUTC()

	return r.queries.CreatePayment(ctx, generated.CreatePaymentParams{
		ID:             payment.ID,
		LeaseID:        payment.LeaseID,
		PaymentType:    payment.Type,
		Amount:         decimalToNumeric(payment.Amount),
		AdvanceCovered: decimalToNumeric(payment.AdvanceCovered),
		Status:         string(payment.Status),
		DueDate:        timeToPgDate(payment.DueDate),
		PaidDate:       optionalTimestamptz(payment.PaidDate),
		PaymentMethod:  payment.PaymentMethod,
		Reference:      payment.Reference,
		Notes:          payment.Notes,
		CreatedAt:      timeToPgTimestamptz(now),
		UpdatedAt:      timeToPgTimestamptz(now),
	})
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row, err := r.queries.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return rowToPayment(row), nil
}

// GetByIDForUpdate retrieves a payment with a row lock.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetPaymentByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return rowToPayment(row), nil
}

// ListPendingByLease returns unpaid payments by due date, then id.
func (r *PaymentRepository) ListPendingByLease(ctx context.Context, leaseID string) ([]*domain.Payment, error) {
	rows, err := r.queries.ListPendingPaymentsByLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	return rowsToPayments(rows), nil
}

// ListOvercovered returns payments whose advance coverage exceeds their amount.
func (r *PaymentRepository) ListOvercovered(ctx context.Context) ([]*domain.Payment, error) {
	rows, err := r.queries.ListOvercoveredPayments(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToPayments(rows), nil
}

// UpdateSettlement writes coverage, status and the settlement fields.
func (r *PaymentRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpdatePaymentSettlement(ctx, generated.UpdatePaymentSettlementParams{
		ID:             payment.ID,
		AdvanceCovered: decimalToNumeric(payment.AdvanceCovered),
		Status:         string(payment.Status),
		PaidDate:       optionalTimestamptz(payment.PaidDate),
		PaymentMethod:  payment.PaymentMethod,
		Reference:      payment.Reference,
		Notes:          payment.Notes,
		UpdatedAt:      timeToPgTimestamptz(nowUTC()),
	})
}

func rowsToPayments(rows []generated.Payment) []*domain.Payment {
	payments := make([]*domain.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, rowToPayment(row))
	}

	return payments
}

func rowToPayment(row generated.Payment) *domain.Payment {
	return &domain.Payment{
		ID:             row.ID,
		LeaseID:        row.LeaseID,
		Type:           row.PaymentType,
		Amount:         numericToDecimal(row.Amount),
		AdvanceCovered: numericToDecimal(row.AdvanceCovered),
		Status:         domain.PaymentStatus(row.Status),
		DueDate:        pgDateToTime(row.DueDate),
		PaidDate:       timestamptzPtr(row.PaidDate),
		PaymentMethod:  row.PaymentMethod,
		Reference:      row.Reference,
		Notes:          row.Notes,
	}
}
