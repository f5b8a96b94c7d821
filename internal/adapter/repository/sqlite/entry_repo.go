package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

const entryColumns = `seq, id, entry_date, description, amount, entry_type, category, reference,
	payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id,
	notes, running_balance, created_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// CreateIfAbsent inserts the entry and bumps the ledger revision. The partial unique indexes on
// payment_id and expense_id turn a second insert for the same source into a no-op, in which
// case the stored row is returned.
func (r *EntryRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, bool, error) {
	q := sqlTx(tx)

	res, err := q.ExecContext(ctx, `
		INSERT INTO entries (
			id, entry_date, description, amount, entry_type, category, reference,
			payment_id, expense_id, advance_id, property_id, owner_id, organization_id, company_id,
			notes, running_balance, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		entry.ID,
		formatDate(entry.EntryDate),
		entry.Description,
		entry.Amount.String(),
		string(entry.Type),
		string(entry.Category),
		entry.Reference,
		nullString(entry.PaymentID),
		nullString(entry.ExpenseID),
		nullString(entry.AdvanceID),
		entry.PropertyID,
		entry.OwnerID,
		entry.OrganizationID,
		entry.CompanyID,
		entry.Notes,
		entry.RunningBalance.String(),
		formatTimestamp(entry.CreatedAt),
	)
	if err != nil {
		return nil, false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	if affected == 1 {
		if err := bumpRevision(ctx, q); err != nil {
			return nil, false, err
		}
		stored, err := getEntry(ctx, q, `id = ?`, entry.ID)
		if err != nil {
			return nil, false, err
		}
		return stored, true, nil
	}

	var existing *domain.Entry
	switch {
	case entry.PaymentID != "":
		existing, err = getEntry(ctx, q, `payment_id = ?`, entry.PaymentID)
	case entry.ExpenseID != "":
		existing, err = getEntry(ctx, q, `expense_id = ?`, entry.ExpenseID)
	default:
		existing, err = getEntry(ctx, q, `id = ?`, entry.ID)
	}
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return getEntry(ctx, r.db, `id = ?`, id)
}

// GetTail returns the last entry in ledger order.
func (r *EntryRepository) GetTail(ctx context.Context, tx usecase.Transaction) (*domain.Entry, error) {
	row := sqlTx(tx).QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY entry_date DESC, seq DESC LIMIT 1`)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	return entry, err
}

// ListOrdered returns the whole ledger in (entry_date, seq) order.
func (r *EntryRepository) ListOrdered(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error) {
	return queryEntries(ctx, sqlTx(tx),
		`SELECT `+entryColumns+` FROM entries ORDER BY entry_date, seq`)
}

// ListByDateRange returns entries dated within [start, end], both inclusive.
func (r *EntryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Entry, error) {
	return queryEntries(ctx, r.db,
		`SELECT `+entryColumns+` FROM entries WHERE entry_date >= ? AND entry_date <= ? ORDER BY entry_date, seq`,
		formatDate(start), formatDate(end))
}

// List returns entries matching the filter in ledger order.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		where = append(where, clause)
		args = append(args, v)
	}

	if filter.StartDate != nil {
		add(`entry_date >= ?`, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add(`entry_date <= ?`, formatDate(*filter.EndDate))
	}
	if filter.Type != "" {
		add(`entry_type = ?`, string(filter.Type))
	}
	if filter.Category != "" {
		add(`category = ?`, string(filter.Category))
	}
	if filter.PropertyID != "" {
		add(`property_id = ?`, filter.PropertyID)
	}
	if filter.AdvanceID != "" {
		add(`advance_id = ?`, filter.AdvanceID)
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` ORDER BY entry_date, seq LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	return queryEntries(ctx, r.db, query, args...)
}

// UpdateRunningBalances rewrites the running balance of each entry and bumps the revision once.
func (r *EntryRepository) UpdateRunningBalances(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	q := sqlTx(tx)
	stmt, err := q.PrepareContext(ctx, `UPDATE entries SET running_balance = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.RunningBalance.String(), e.ID); err != nil {
			return err
		}
	}

	return bumpRevision(ctx, q)
}

// Revision reads the ledger revision counter.
func (r *EntryRepository) Revision(ctx context.Context) (int64, error) {
	var revision int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM ledger_state WHERE id = 1`).Scan(&revision)
	return revision, err
}

func bumpRevision(ctx context.Context, q dbtx) error {
	_, err := q.ExecContext(ctx, `UPDATE ledger_state SET revision = revision + 1 WHERE id = 1`)
	return err
}

func getEntry(ctx context.Context, q dbtx, where string, arg any) (*domain.Entry, error) {
	row := q.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE `+where, arg)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	return entry, err
}

func queryEntries(ctx context.Context, q dbtx, query string, args ...any) ([]*domain.Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		e                               domain.Entry
		entryDate, amount, entryType    string
		category, runningBalance, added string
		paymentID, expenseID, advanceID sql.NullString
	)

	err := row.Scan(
		&e.Seq,
		&e.ID,
		&entryDate,
		&e.Description,
		&amount,
		&entryType,
		&category,
		&e.Reference,
		&paymentID,
		&expenseID,
		&advanceID,
		&e.PropertyID,
		&e.OwnerID,
		&e.OrganizationID,
		&e.CompanyID,
		&e.Notes,
		&runningBalance,
		&added,
	)
	if err != nil {
		return nil, err
	}

	e.EntryDate = parseDate(entryDate)
	e.Amount = parseDecimal(amount)
	e.Type = domain.EntryType(entryType)
	e.Category = domain.Category(category)
	e.PaymentID = paymentID.String
	e.ExpenseID = expenseID.String
	e.AdvanceID = advanceID.String
	e.RunningBalance = parseDecimal(runningBalance)
	e.CreatedAt = parseTimestamp(added)

	return &e, nil
}
