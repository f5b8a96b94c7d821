package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/postgres/generated"
	"github.com/iho/rentledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository over a pool or any other DBTX.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// CreateIfAbsent inserts the entry and bumps the ledger revision. When the payment or expense
// already has an entry, the stored row is returned instead.
func (r *EntryRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, bool, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.InsertEntry(ctx, generated.InsertEntryParams{
		ID:             entry.ID,
		EntryDate:      timeToPgDate(entry.EntryDate),
		Description:    entry.Description,
		Amount:         decimalToNumeric(entry.Amount),
		EntryType:      string(entry.Type),
		Category:       string(entry.Category),
		Reference:      entry.Reference,
		PaymentID:      textOrNull(entry.PaymentID),
		ExpenseID:      textOrNull(entry.ExpenseID),
		AdvanceID:      textOrNull(entry.AdvanceID),
		PropertyID:     entry.PropertyID,
		OwnerID:        entry.OwnerID,
		OrganizationID: entry.OrganizationID,
		CompanyID:      entry.CompanyID,
		Notes:          entry.Notes,
		RunningBalance: decimalToNumeric(entry.RunningBalance),
		CreatedAt:      timeToPgTimestamptz(entry.CreatedAt),
	})
	if err == nil {
		if err := queries.BumpLedgerRevision(ctx); err != nil {
			return nil, false, err
		}
		return rowToEntry(row), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// ON CONFLICT DO NOTHING returned no row: the source already has an entry.
	switch {
	case entry.PaymentID != "":
		row, err = queries.GetEntryByPaymentID(ctx, textOrNull(entry.PaymentID))
	case entry.ExpenseID != "":
		row, err = queries.GetEntryByExpenseID(ctx, textOrNull(entry.ExpenseID))
	default:
		row, err = queries.GetEntryByID(ctx, entry.ID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domain.ErrEntryNotFound
		}
		return nil, false, err
	}

	return rowToEntry(row), false, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row, err := r.queries.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// GetTail returns the last entry in ledger order.
func (r *EntryRepository) GetTail(ctx context.Context, tx usecase.Transaction) (*domain.Entry, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetLedgerTail(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// ListOrdered returns the whole ledger in (entry_date, seq) order.
func (r *EntryRepository) ListOrdered(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	rows, err := queries.ListEntriesOrdered(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListByDateRange returns entries dated within [start, end], both inclusive.
func (r *EntryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByDateRange(ctx, generated.ListEntriesByDateRangeParams{
		StartDate: timeToPgDate(start),
		EndDate:   timeToPgDate(end),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// List returns entries matching the filter in ledger order.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.queries.ListEntries(ctx, generated.ListEntriesParams{
		StartDate:  optionalDate(filter.StartDate),
		EndDate:    optionalDate(filter.EndDate),
		EntryType:  textOrNull(string(filter.Type)),
		Category:   textOrNull(string(filter.Category)),
		PropertyID: textOrNull(filter.PropertyID),
		AdvanceID:  textOrNull(filter.AdvanceID),
		Limit:      int32(limit),
		Offset:     int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// UpdateRunningBalances rewrites the running balance of each entry and bumps the revision once.
func (r *EntryRepository) UpdateRunningBalances(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	queries := generated.New(tx.(*Tx).PgxTx())
	for _, e := range entries {
		if err := queries.UpdateEntryRunningBalance(ctx, generated.UpdateEntryRunningBalanceParams{
			ID:             e.ID,
			RunningBalance: decimalToNumeric(e.RunningBalance),
		}); err != nil {
			return err
		}
	}

	return queries.BumpLedgerRevision(ctx)
}

// Revision reads the ledger revision counter.
func (r *EntryRepository) Revision(ctx context.Context) (int64, error) {
	return r.queries.GetLedgerRevision(ctx)
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		Seq:            row.Seq,
		ID:             row.ID,
		EntryDate:      pgDateToTime(row.EntryDate),
		Description:    row.Description,
		Amount:         numericToDecimal(row.Amount),
		Type:           domain.EntryType(row.EntryType),
		Category:       domain.Category(row.Category),
		Reference:      row.Reference,
		PaymentID:      textValue(row.PaymentID),
		ExpenseID:      textValue(row.ExpenseID),
		AdvanceID:      textValue(row.AdvanceID),
		PropertyID:     row.PropertyID,
		OwnerID:        row.OwnerID,
		OrganizationID: row.OrganizationID,
		CompanyID:      row.CompanyID,
		Notes:          row.Notes,
		RunningBalance: numericToDecimal(row.RunningBalance),
		CreatedAt:      row.CreatedAt.Time.UTC(),
	}
}
