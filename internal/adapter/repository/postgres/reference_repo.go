package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/postgres/generated"
)

// LeaseRepository implements usecase.LeaseRepository.
type LeaseRepository struct {
	queries *generated.Queries
}

// NewLeaseRepository creates a new LeaseRepository.
func NewLeaseRepository(db generated.DBTX) *LeaseRepository {
	return &LeaseRepository{queries: generated.New(db)}
}

// Create stores a lease.
func (r *LeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	return r.queries.CreateLease(ctx, generated.CreateLeaseParams{
		ID:             lease.ID,
		Reference:      lease.Reference,
		PropertyID:     lease.PropertyID,
		OwnerID:        lease.OwnerID,
		OrganizationID: lease.OrganizationID,
		CompanyID:      lease.CompanyID,
		CreatedAt:      timeToPgTimestamptz(nowUTC()),
	})
}

// GetByID retrieves a lease by ID.
func (r *LeaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	row, err := r.queries.GetLeaseByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeaseNotFound
		}

		return nil, err
	}

	return &domain.Lease{
		ID:             row.ID,
		Reference:      row.Reference,
		PropertyID:     row.PropertyID,
		OwnerID:        row.OwnerID,
		OrganizationID: row.OrganizationID,
		CompanyID:      row.CompanyID,
	}, nil
}

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	queries *generated.Queries
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db generated.DBTX) *ExpenseRepository {
	return &ExpenseRepository{queries: generated.New(db)}
}

// Create stores an expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	return r.queries.CreateExpense(ctx, generated.CreateExpenseParams{
		ID:             expense.ID,
		Category:       expense.Category,
		Description:    expense.Description,
		Amount:         decimalToNumeric(expense.Amount),
		ExpenseDate:    timeToPgDate(expense.Date),
		PropertyID:     expense.PropertyID,
		OwnerID:        expense.OwnerID,
		OrganizationID: expense.OrganizationID,
		CompanyID:      expense.CompanyID,
		CreatedAt:      timeToPgTimestamptz(nowUTC()),
	})
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row, err := r.queries.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return &domain.Expense{
		ID:             row.ID,
		Category:       row.Category,
		Description:    row.Description,
		Amount:         numericToDecimal(row.Amount),
		Date:           pgDateToTime(row.ExpenseDate),
		PropertyID:     row.PropertyID,
		OwnerID:        row.OwnerID,
		OrganizationID: row.OrganizationID,
		CompanyID:      row.CompanyID,
	}, nil
}
