package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/postgres/generated"
	"github.com/iho/rentledger/internal/usecase"
)

// AdvanceRepository implements usecase.AdvanceRepository.
type AdvanceRepository struct {
	queries *generated.Queries
}

// NewAdvanceRepository creates a new AdvanceRepository.
func NewAdvanceRepository(db generated.DBTX) *AdvanceRepository {
	return &AdvanceRepository{queries: generated.New(db)}
}

// Create inserts an advance within a transaction.
func (r *AdvanceRepository) Create(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.CreateAdvance(ctx, generated.CreateAdvanceParams{
		ID:                advance.ID,
		LeaseID:           advance.LeaseID,
		Amount:            decimalToNumeric(advance.Amount),
		RemainingBalance:  decimalToNumeric(advance.RemainingBalance),
		Status:            string(advance.Status),
		PaymentMethod:     advance.PaymentMethod,
		Reference:         advance.Reference,
		Notes:             advance.Notes,
		PaidDate:          timeToPgTimestamptz(advance.PaidDate),
		TransferredFromID: textOrNull(advance.TransferredFromID),
		TransferredToID:   textOrNull(advance.TransferredToID),
		CreatedAt:         timeToPgTimestamptz(advance.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(advance.UpdatedAt),
	})
}

// GetByID retrieves an advance by ID.
func (r *AdvanceRepository) GetByID(ctx context.Context, id string) (*domain.Advance, error) {
	row, err := r.queries.GetAdvanceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdvanceNotFound
		}

		return nil, err
	}

	return rowToAdvance(row), nil
}

// GetByIDForUpdate retrieves an advance with a row lock.
func (r *AdvanceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Advance, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetAdvanceByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdvanceNotFound
		}

		return nil, err
	}

	return rowToAdvance(row), nil
}

// ListActiveByLeaseForUpdate locks the lease's ACTIVE advances in FIFO order.
func (r *AdvanceRepository) ListActiveByLeaseForUpdate(ctx context.Context, tx usecase.Transaction, leaseID string) ([]*domain.Advance, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	rows, err := queries.ListActiveAdvancesByLeaseForUpdate(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	return rowsToAdvances(rows), nil
}

// ListByLease lists a lease's advances, optionally filtered by status.
func (r *AdvanceRepository) ListByLease(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error) {
	rows, err := r.queries.ListAdvancesByLease(ctx, generated.ListAdvancesByLeaseParams{
		LeaseID: leaseID,
		Status:  textOrNull(string(status)),
	})
	if err != nil {
		return nil, err
	}

	return rowsToAdvances(rows), nil
}

// List returns advances page by page.
func (r *AdvanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.Advance, error) {
	rows, err := r.queries.ListAdvances(ctx, generated.ListAdvancesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToAdvances(rows), nil
}

// SumActiveByLease totals the remaining balance of the lease's ACTIVE advances.
func (r *AdvanceRepository) SumActiveByLease(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	total, err := r.queries.SumActiveAdvancesByLease(ctx, leaseID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// ListLeaseIDsWithActive returns every lease holding at least one ACTIVE advance.
func (r *AdvanceRepository) ListLeaseIDsWithActive(ctx context.Context) ([]string, error) {
	return r.queries.ListLeaseIDsWithActiveAdvances(ctx)
}

// Update writes the mutable advance fields.
func (r *AdvanceRepository) Update(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpdateAdvance(ctx, generated.UpdateAdvanceParams{
		ID:               advance.ID,
		RemainingBalance: decimalToNumeric(advance.RemainingBalance),
		Status:           string(advance.Status),
		Notes:            advance.Notes,
		TransferredToID:  textOrNull(advance.TransferredToID),
		UpdatedAt:        timeToPgTimestamptz(advance.UpdatedAt),
	})
}

func rowsToAdvances(rows []generated.Advance) []*domain.Advance {
	advances := make([]*domain.Advance, 0, len(rows))
	for _, row := range rows {
		advances = append(advances, rowToAdvance(row))
	}

	return advances
}

func rowToAdvance(row generated.Advance) *domain.Advance {
	return &domain.Advance{
		ID:                row.ID,
		LeaseID:           row.LeaseID,
		Amount:            numericToDecimal(row.Amount),
		RemainingBalance:  numericToDecimal(row.RemainingBalance),
		Status:            domain.AdvanceStatus(row.Status),
		PaymentMethod:     row.PaymentMethod,
		Reference:         row.Reference,
		Notes:             row.Notes,
		PaidDate:          row.PaidDate.Time.UTC(),
		TransferredFromID: textValue(row.TransferredFromID),
		TransferredToID:   textValue(row.TransferredToID),
		CreatedAt:         row.CreatedAt.Time.UTC(),
		UpdatedAt:         row.UpdatedAt.Time.UTC(),
	}
}
