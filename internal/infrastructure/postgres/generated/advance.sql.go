package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAdvance = `-- name: CreateAdvance :exec
INSERT INTO advances (id, lease_id, amount, remaining_balance, status, payment_method, reference, notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type CreateAdvanceParams struct {
	ID                string             `json:"id"`
	LeaseID           string             `json:"lease_id"`
	Amount            pgtype.Numeric     `json:"amount"`
	RemainingBalance  pgtype.Numeric     `json:"remaining_balance"`
	Status            string             `json:"status"`
	PaymentMethod     string             `json:"payment_method"`
	Reference         string             `json:"reference"`
	Notes             string             `json:"notes"`
	PaidDate          pgtype.Timestamptz `json:"paid_date"`
	TransferredFromID pgtype.Text        `json:"transferred_from_id"`
	TransferredToID   pgtype.Text        `json:"transferred_to_id"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAdvance(ctx context.Context, arg CreateAdvanceParams) error {
	_, err := q.db.Exec(ctx, createAdvance,
		arg.ID,
		arg.LeaseID,
		arg.Amount,
		arg.RemainingBalance,
		arg.Status,
		arg.PaymentMethod,
		arg.Reference,
		arg.Notes,
		arg.PaidDate,
		arg.TransferredFromID,
		arg.TransferredToID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getAdvanceByID = `-- name: GetAdvanceByID :one
SELECT id, lease_id, amount, remaining_balance, status, payment_method, reference, notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at FROM advances WHERE id = $1
`

func (q *Queries) GetAdvanceByID(ctx context.Context, id string) (Advance, error) {
	row := q.db.QueryRow(ctx, getAdvanceByID, id)
	var i Advance
	err := row.Scan(
		&i.ID,
		&i.LeaseID,
		&i.Amount,
		&i.RemainingBalance,
		&i.Status,
		&i.PaymentMethod,
		&i.Reference,
		&i.Notes,
		&i.PaidDate,
		&i.TransferredFromID,
		&i.TransferredToID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAdvanceByIDForUpdate = `-- name: GetAdvanceByIDForUpdate :one
SELECT id, lease_id, amount, remaining_balance, status, payment_method, reference, notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at FROM advances WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAdvanceByIDForUpdate(ctx context.Context, id string) (Advance, error) {
	row := q.db.QueryRow(ctx, getAdvanceByIDForUpdate, id)
	var i Advance
	err := row.Scan(
		&i.ID,
		&i.LeaseID,
		&i.Amount,
		&i.RemainingBalance,
		&i.Status,
		&i.PaymentMethod,
		&i.Reference,
		&i.Notes,
		&i.PaidDate,
		&i.TransferredFromID,
		&i.TransferredToID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveAdvancesByLeaseForUpdate = `-- name: ListActiveAdvancesByLeaseForUpdate :many
SELECT id, lease_id, amount, remaining_balance, status, payment_method, reference, notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at FROM advances
WHERE lease_id = $1 AND status = 'ACTIVE'
ORDER BY paid_date, id
FOR UPDATE
`

func (q *Queries) ListActiveAdvancesByLeaseForUpdate(ctx context.Context, leaseID string) ([]Advance, error) {
	rows, err := q.db.Query(ctx, listActiveAdvancesByLeaseForUpdate, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Advance{}
	for rows.Next() {
		var i Advance
		if err := rows.Scan(
			&i.ID,
			&i.LeaseID,
			&i.Amount,
			&i.RemainingBalance,
			&i.Status,
			&i.PaymentMethod,
			&i.Reference,
			&i.Notes,
			&i.PaidDate,
			&i.TransferredFromID,
			&i.TransferredToID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAdvances = `-- name: ListAdvances :many
SELECT id, lease_id, amount, remaining_balance, status, payment_method, reference, notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at FROM advances
ORDER BY id
LIMIT $1 OFFSET $2
`

type ListAdvancesParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListAdvances(ctx context.Context, arg ListAdvancesParams) ([]Advance, error) {
	rows, err := q.db.Query(ctx, listAdvances, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Advance{}
	for rows.Next() {
		var i Advance
		if err := rows.Scan(
			&i.ID,
			&i.LeaseID,
			&i.Amount,
			&i.RemainingBalance,
			&i.Status,
			&i.PaymentMethod,
			&i.Reference,
			&i.Notes,
			&i.PaidDate,
			&i.TransferredFromID,
			&i.TransferredToID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAdvancesByLease = `-- name: ListAdvancesByLease :many
SELECT id, lease_id, amount, remaining_balance, status, payment_method, reference, notes, paid_date, transferred_from_id, transferred_to_id, created_at, updated_at FROM advances
WHERE lease_id = $1 AND ($2::text IS NULL OR status = $2::text)
ORDER BY paid_date, id
`

type ListAdvancesByLeaseParams struct {
	LeaseID string      `json:"lease_id"`
	Status  pgtype.Text `json:"status"`
}

func (q *Queries) ListAdvancesByLease(ctx context.Context, arg ListAdvancesByLeaseParams) ([]Advance, error) {
	rows, err := q.db.Query(ctx, listAdvancesByLease, arg.LeaseID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Advance{}
	for rows.Next() {
		var i Advance
		if err := rows.Scan(
			&i.ID,
			&i.LeaseID,
			&i.Amount,
			&i.RemainingBalance,
			&i.Status,
			&i.PaymentMethod,
			&i.Reference,
			&i.Notes,
			&i.PaidDate,
			&i.TransferredFromID,
			&i.TransferredToID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLeaseIDsWithActiveAdvances = `-- name: ListLeaseIDsWithActiveAdvances :many
SELECT DISTINCT lease_id FROM advances WHERE status = 'ACTIVE' ORDER BY lease_id
`

func (q *Queries) ListLeaseIDsWithActiveAdvances(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listLeaseIDsWithActiveAdvances)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var lease_id string
		if err := rows.Scan(&lease_id); err != nil {
			return nil, err
		}
		items = append(items, lease_id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumActiveAdvancesByLease = `-- name: SumActiveAdvancesByLease :one
SELECT COALESCE(SUM(remaining_balance), 0)::NUMERIC AS total
FROM advances
WHERE lease_id = $1 AND status = 'ACTIVE'
`

func (q *Queries) SumActiveAdvancesByLease(ctx context.Context, leaseID string) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumActiveAdvancesByLease, leaseID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const updateAdvance = `-- name: UpdateAdvance :exec
UPDATE advances
SET remaining_balance = $2, status = $3, notes = $4, transferred_to_id = $5, updated_at = $6
WHERE id = $1
`

type UpdateAdvanceParams struct {
	ID               string             `json:"id"`
	RemainingBalance pgtype.Numeric     `json:"remaining_balance"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes"`
	TransferredToID  pgtype.Text        `json:"transferred_to_id"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAdvance(ctx context.Context, arg UpdateAdvanceParams) error {
	_, err := q.db.Exec(ctx, updateAdvance,
		arg.ID,
		arg.RemainingBalance,
		arg.Status,
		arg.Notes,
		arg.TransferredToID,
		arg.UpdatedAt,
	)
	return err
}
