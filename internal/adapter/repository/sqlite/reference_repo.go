package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iho/rentledger/internal/domain"
)

// LeaseRepository implements usecase.LeaseRepository.
type LeaseRepository struct {
	db *sql.DB
}

// NewLeaseRepository creates a new LeaseRepository.
func NewLeaseRepository(db *sql.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// Create stores a lease.
func (r *LeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leases (id, reference, property_id, owner_id, organization_id, company_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lease.ID,
		lease.Reference,
		lease.PropertyID,
		lease.OwnerID,
		lease.OrganizationID,
		lease.CompanyID,
		formatTimestamp(nowUTC()),
	)
	return err
}

// GetByID retrieves a lease by ID.
func (r *LeaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	var l domain.Lease

	err := r.db.QueryRowContext(ctx, `
		SELECT id, reference, property_id, owner_id, organization_id, company_id
		FROM leases WHERE id = ?`, id).Scan(
		&l.ID,
		&l.Reference,
		&l.PropertyID,
		&l.OwnerID,
		&l.OrganizationID,
		&l.CompanyID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLeaseNotFound
	}
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create stores an expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (
			id, category, description, amount, expense_date, property_id, owner_id,
			organization_id, company_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.Category,
		expense.Description,
		expense.Amount.String(),
		formatDate(expense.Date),
		expense.PropertyID,
		expense.OwnerID,
		expense.OrganizationID,
		expense.CompanyID,
		formatTimestamp(nowUTC()),
	)
	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	var (
		e            domain.Expense
		amount, date string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, category, description, amount, expense_date, property_id, owner_id,
		       organization_id, company_id
		FROM expenses WHERE id = ?`, id).Scan(
		&e.ID,
		&e.Category,
		&e.Description,
		&amount,
		&date,
		&e.PropertyID,
		&e.OwnerID,
		&e.OrganizationID,
		&e.CompanyID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}
	if err != nil {
		return nil, err
	}

	e.Amount = parseDecimal(amount)
	e.Date = parseDate(date)
	return &e, nil
}
