package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertEntry = `-- name: InsertEntry :one
INSERT INTO entries (
    id, entry_date, description, amount, entry_type, category, reference,
    payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id,
    notes, running_balance, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT DO NOTHING
RETURNING seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at
`

type InsertEntryParams struct {
	ID             string             `json:"id"`
	EntryDate      pgtype.Date        `json:"entry_date"`
	Description    string             `json:"description"`
	Amount         pgtype.Numeric     `json:"amount"`
	EntryType      string             `json:"entry_type"`
	Category       string             `json:"category"`
	Reference      string             `json:"reference"`
	PaymentID      pgtype.Text        `json:"payment_id"`
	ExpenseID      pgtype.Text        `json:"expense_id"`
	AdvanceID      pgtype.Text        `json:"advance_id"`
	PropertyID     string             `json:"property_id"`
	OwnerID        string             `json:"owner_id"`
	OrganizationID string             `json:"organization_id"`
	CompanyID      string             `json:"company_id"`
	Notes          string             `json:"notes"`
	RunningBalance pgtype.Numeric     `json:"running_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertEntry(ctx context.Context, arg InsertEntryParams) (Entry, error) {
	row := q.db.QueryRow(ctx, insertEntry,
		arg.ID,
		arg.EntryDate,
		arg.Description,
		arg.Amount,
		arg.EntryType,
		arg.Category,
		arg.Reference,
		arg.PaymentID,
		arg.ExpenseID,
		arg.AdvanceID,
		arg.PropertyID,
		arg.OwnerID,
		arg.OrganizationID,
		arg.CompanyID,
		arg.Notes,
		arg.RunningBalance,
		arg.CreatedAt,
	)
	var i Entry
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.EntryDate,
		&i.Description,
		&i.Amount,
		&i.EntryType,
		&i.Category,
		&i.Reference,
		&i.PaymentID,
		&i.ExpenseID,
		&i.AdvanceID,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.Notes,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getEntryByExpenseID = `-- name: GetEntryByExpenseID :one
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries WHERE expense_id = $1
`

func (q *Queries) GetEntryByExpenseID(ctx context.Context, expenseID pgtype.Text) (Entry, error) {
	row := q.db.QueryRow(ctx, getEntryByExpenseID, expenseID)
	var i Entry
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.EntryDate,
		&i.Description,
		&i.Amount,
		&i.EntryType,
		&i.Category,
		&i.Reference,
		&i.PaymentID,
		&i.ExpenseID,
		&i.AdvanceID,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.Notes,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getEntryByID = `-- name: GetEntryByID :one
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries WHERE id = $1
`

func (q *Queries) GetEntryByID(ctx context.Context, id string) (Entry, error) {
	row := q.db.QueryRow(ctx, getEntryByID, id)
	var i Entry
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.EntryDate,
		&i.Description,
		&i.Amount,
		&i.EntryType,
		&i.Category,
		&i.Reference,
		&i.PaymentID,
		&i.ExpenseID,
		&i.AdvanceID,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.Notes,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getEntryByPaymentID = `-- name: GetEntryByPaymentID :one
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries WHERE payment_id = $1
`

func (q *Queries) GetEntryByPaymentID(ctx context.Context, paymentID pgtype.Text) (Entry, error) {
	row := q.db.QueryRow(ctx, getEntryByPaymentID, paymentID)
	var i Entry
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.EntryDate,
		&i.Description,
		&i.Amount,
		&i.EntryType,
		&i.Category,
		&i.Reference,
		&i.PaymentID,
		&i.ExpenseID,
		&i.AdvanceID,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.Notes,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getLedgerTail = `-- name: GetLedgerTail :one
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries
ORDER BY entry_date DESC, seq DESC
LIMIT 1
`

func (q *Queries) GetLedgerTail(ctx context.Context) (Entry, error) {
	row := q.db.QueryRow(ctx, getLedgerTail)
	var i Entry
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.EntryDate,
		&i.Description,
		&i.Amount,
		&i.EntryType,
		&i.Category,
		&i.Reference,
		&i.PaymentID,
		&i.ExpenseID,
		&i.AdvanceID,
		&i.PropertyID,
		&i.OwnerID,
		&i.OrganizationID,
		&i.CompanyID,
		&i.Notes,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const listEntries = `-- name: ListEntries :many
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries
WHERE ($1::date IS NULL OR entry_date >= $1::date)
  AND ($2::date IS NULL OR entry_date <= $2::date)
  AND ($3::text IS NULL OR entry_type = $3::text)
  AND ($4::text IS NULL OR category = $4::text)
  AND ($5::text IS NULL OR property_id = $5::text)
  AND ($6::text IS NULL OR advance_id = $6::text)
ORDER BY entry_date, seq
LIMIT $7 OFFSET $8
`

type ListEntriesParams struct {
	StartDate  pgtype.Date `json:"start_date"`
	EndDate    pgtype.Date `json:"end_date"`
	EntryType  pgtype.Text `json:"entry_type"`
	Category   pgtype.Text `json:"category"`
	PropertyID pgtype.Text `json:"property_id"`
	AdvanceID  pgtype.Text `json:"advance_id"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

func (q *Queries) ListEntries(ctx context.Context, arg ListEntriesParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntries,
		arg.StartDate,
		arg.EndDate,
		arg.EntryType,
		arg.Category,
		arg.PropertyID,
		arg.AdvanceID,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.EntryDate,
			&i.Description,
			&i.Amount,
			&i.EntryType,
			&i.Category,
			&i.Reference,
			&i.PaymentID,
			&i.ExpenseID,
			&i.AdvanceID,
			&i.PropertyID,
			&i.OwnerID,
			&i.OrganizationID,
			&i.CompanyID,
			&i.Notes,
			&i.RunningBalance,
			&i.CreatedAt,
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

const listEntriesByDateRange = `-- name: ListEntriesByDateRange :many
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries
WHERE entry_date >= $1 AND entry_date <= $2
ORDER BY entry_date, seq
`

type ListEntriesByDateRangeParams struct {
	StartDate pgtype.Date `json:"start_date"`
	EndDate   pgtype.Date `json:"end_date"`
}

func (q *Queries) ListEntriesByDateRange(ctx context.Context, arg ListEntriesByDateRangeParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesByDateRange, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.EntryDate,
			&i.Description,
			&i.Amount,
			&i.EntryType,
			&i.Category,
			&i.Reference,
			&i.PaymentID,
			&i.ExpenseID,
			&i.AdvanceID,
			&i.PropertyID,
			&i.OwnerID,
			&i.OrganizationID,
			&i.CompanyID,
			&i.Notes,
			&i.RunningBalance,
			&i.CreatedAt,
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

const listEntriesOrdered = `-- name: ListEntriesOrdered :many
SELECT seq, id, entry_date, description, amount, entry_type, category, reference, payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id, notes, running_balance, created_at FROM entries ORDER BY entry_date, seq
`

func (q *Queries) ListEntriesOrdered(ctx context.Context) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesOrdered)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.EntryDate,
			&i.Description,
			&i.Amount,
			&i.EntryType,
			&i.Category,
			&i.Reference,
			&i.PaymentID,
			&i.ExpenseID,
			&i.AdvanceID,
			&i.PropertyID,
			&i.OwnerID,
			&i.OrganizationID,
			&i.CompanyID,
			&i.Notes,
			&i.RunningBalance,
			&i.CreatedAt,
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

const updateEntryRunningBalance = `-- name: UpdateEntryRunningBalance :exec
UPDATE entries SET running_balance = $2 WHERE id = $1
`

type UpdateEntryRunningBalanceParams struct {
	ID             string         `json:"id"`
	RunningBalance pgtype.Numeric `json:"running_balance"`
}

func (q *Queries) UpdateEntryRunningBalance(ctx context.Context, arg UpdateEntryRunningBalanceParams) error {
	_, err := q.db.Exec(ctx, updateEntryRunningBalance, arg.ID, arg.RunningBalance)
	return err
}
