package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `-- name: CreatePayment :exec
INSERT INTO payments (id, lease_id, payment_type, amount, advance_covered, status, due_date, paid_date, payment_method, reference, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type CreatePaymentParams struct {
	ID             string             `json:"id"`
	LeaseID        string             `json:"lease_id"`
	PaymentType    string             `json:"payment_type"`
	Amount         pgtype.Numeric     `json:"amount"`
	AdvanceCovered pgtype.Numeric     `json:"advance_covered"`
	Status         string             `json:"status"`
	DueDate        pgtype.Date        `json:"due_date"`
	PaidDate       pgtype.Timestamptz `json:"paid_date"`
	PaymentMethod  string             `json:"payment_method"`
	Reference      string             `json:"reference"`
	Notes          string             `json:"notes"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) error {
	_, err := q.db.Exec(ctx, createPayment,
		arg.ID,
		arg.LeaseID,
		arg.PaymentType,
		arg.Amount,
		arg.AdvanceCovered,
		arg.Status,
		arg.DueDate,
		arg.PaidDate,
		arg.PaymentMethod,
		arg.Reference,
		arg.Notes,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getPaymentByID = `-- name: GetPaymentByID :one
SELECT id, lease_id, payment_type, amount, advance_covered, status, due_date, paid_date, payment_method, reference, notes, created_at, updated_at FROM payments WHERE id = $1
`

func (q *Queries) GetPaymentByID(ctx context.Context, id string) (Payment, error) {
	row := q.db.QueryRow(ctx, getPaymentByID, id)
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.LeaseID,
		&i.PaymentType,
		&i.Amount,
		&i.AdvanceCovered,
		&i.Status,
		&i.DueDate,
		&i.PaidDate,
		&i.PaymentMethod,
		&i.Reference,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPaymentByIDForUpdate = `-- name: GetPaymentByIDForUpdate :one
SELECT id, lease_id, payment_type, amount, advance_covered, status, due_date, paid_date, payment_method, reference, notes, created_at, updated_at FROM payments WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetPaymentByIDForUpdate(ctx context.Context, id string) (Payment, error) {
	row := q.db.QueryRow(ctx, getPaymentByIDForUpdate, id)
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.LeaseID,
		&i.PaymentType,
		&i.Amount,
		&i.AdvanceCovered,
		&i.Status,
		&i.DueDate,
		&i.PaidDate,
		&i.PaymentMethod,
		&i.Reference,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listOvercoveredPayments = `-- name: ListOvercoveredPayments :many
SELECT id, lease_id, payment_type, amount, advance_covered, status, due_date, paid_date, payment_method, reference, notes, created_at, updated_at FROM payments WHERE advance_covered > amount ORDER BY id
`

func (q *Queries) ListOvercoveredPayments(ctx context.Context) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listOvercoveredPayments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Payment{}
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID,
			&i.LeaseID,
			&i.PaymentType,
			&i.Amount,
			&i.AdvanceCovered,
			&i.Status,
			&i.DueDate,
			&i.PaidDate,
			&i.PaymentMethod,
			&i.Reference,
			&i.Notes,
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

const listPendingPaymentsByLease = `-- name: ListPendingPaymentsByLease :many
SELECT id, lease_id, payment_type, amount, advance_covered, status, due_date, paid_date, payment_method, reference, notes, created_at, updated_at FROM payments
WHERE lease_id = $1 AND status <> 'Paid'
ORDER BY due_date, id
`

func (q *Queries) ListPendingPaymentsByLease(ctx context.Context, leaseID string) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPendingPaymentsByLease, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Payment{}
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID,
			&i.LeaseID,
			&i.PaymentType,
			&i.Amount,
			&i.AdvanceCovered,
			&i.Status,
			&i.DueDate,
			&i.PaidDate,
			&i.PaymentMethod,
			&i.Reference,
			&i.Notes,
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

const updatePaymentSettlement = `-- name: UpdatePaymentSettlement :exec
UPDATE payments
SET advance_covered = $2, status = $3, paid_date = $4, payment_method = $5, reference = $6, notes = $7, updated_at = $8
WHERE id = $1
`

type UpdatePaymentSettlementParams struct {
	ID             string             `json:"id"`
	AdvanceCovered pgtype.Numeric     `json:"advance_covered"`
	Status         string             `json:"status"`
	PaidDate       pgtype.Timestamptz `json:"paid_date"`
	PaymentMethod  string             `json:"payment_method"`
	Reference      string             `json:"reference"`
	Notes          string             `json:"notes"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdatePaymentSettlement(ctx context.Context, arg UpdatePaymentSettlementParams) error {
	_, err := q.db.Exec(ctx, updatePaymentSettlement,
		arg.ID,
		arg.AdvanceCovered,
		arg.Status,
		arg.PaidDate,
		arg.PaymentMethod,
		arg.Reference,
		arg.Notes,
		arg.UpdatedAt,
	)
	return err
}
