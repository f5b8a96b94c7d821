package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createExpense = `-- name: CreateExpense :exec
INSERT INTO expenses (id, category, description, amount, expense_date, property_id, owner_id, organization_id, company_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type CreateExpenseParams struct {
	ID             string             `json:"id"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	Amount         pgtype.Numeric     `json:"amount"`
	ExpenseDate    pgtype.Date        `json:"expense_date"`
	PropertyID     string             `json:"property_id"`
	OwnerID        string             `json:"owner_id"`
	OrganizationID string             `json:"organization_id"`
	CompanyID      string             `json:"company_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) error {
	_, err := q.db.Exec(ctx, createExpense,
		arg.ID,
		arg.Category,
		arg.Description,
		arg.Amount,
		arg.ExpenseDate,
		arg.PropertyID,
		arg.OwnerID,
		arg.OrganizationID,
		arg.CompanyID,
		arg.CreatedAt,
	)
	return err
}

const createLease = `-- name: CreateLease :exec
INSERT INTO leases (id, reference, property_id, owner_id, organization_id, company_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateLeaseParams struct {
	ID             string             `json:"id"`
	Reference      string             `json:"reference"`
	PropertyID     string             `json:"property_id"`
	OwnerID        string             `json:"owner_id"`
	OrganizationID string             `json:"organization_id"`
	CompanyID      string             `json:"company_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLease(ctx context.Context, arg CreateLeaseParams) error {
	_, err := q.db.Exec(ctx, createLease,
		arg.ID,
		arg.Reference,
		arg.PropertyID,
		arg.OwnerID,
		arg.OrganizationID,
		arg.CompanyID,
		arg.CreatedAt,
	)
	return err
}

const getExpenseByID = `-- name: GetExpenseByID :one
SELECT id, category, description, amount, expense_date, property_id, owner_id, organization_id, company_id, created_at FROM expenses WHERE id = $1
`

func (q *Queries) GetExpenseByID(ctx context.Context, id string) (Expense, error) {
	row := q.db.QueryRow(ctx, getExpenseByID, id)
	var i Expense
	err := row.Scan(
		&i.ID,
		&i.Category,
		&i.Description,
		&i.Amount,
		&i.ExpenseDate,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.CreatedAt,
	)
	return i, err
}

const getLeaseByID = `-- name: GetLeaseByID :one
SELECT id, reference, property_id, owner_id, organization_id, company_id, created_at FROM leases WHERE id = $1
`

func (q *Queries) GetLeaseByID(ctx context.Context, id string) (Lease, error) {
	row := q.db.QueryRow(ctx, getLeaseByID, id)
	var i Lease
	err := row.Scan(
		&i.ID,
		&i.Reference,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.CreatedAt,
	)
	return i, err
}
