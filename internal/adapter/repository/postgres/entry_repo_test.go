package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/rentledger/internal/domain"
)

var entryColumns = []string{
	"seq", "id", "entry_date", "description", "amount", "entry_type", "category", "reference",
	"payment_id", "expense_id", "advance_id", "property_id", "owner_id", "organization_id",
	"company_id", "notes", "running_balance", "created_at",
}

func entryRow(rows *pgxmock.Rows, seq int64, id, paymentID, amount, balance string, date time.Time) *pgxmock.Rows {
	return rows.AddRow(
		seq, id, timeToPgDate(date), "Rent", decimalToNumeric(decimal.RequireFromString(amount)),
		"CREDIT", "RENT", "", textOrNull(paymentID), pgtype.Text{}, pgtype.Text{},
		"prop-1", "owner-1", "", "", "", decimalToNumeric(decimal.RequireFromString(balance)),
		timeToPgTimestamptz(date),
	)
}

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	require.NoError(t, err)
	return tx.(*Tx)
}

func TestEntryRepositoryCreateIfAbsentInserts(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery("INSERT INTO entries").
		WillReturnRows(entryRow(pgxmock.NewRows(entryColumns), 7, "entry-1", "pay-1", "1200", "1200", date))
	pool.ExpectExec("UPDATE ledger_state SET revision").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewEntryRepository(pool)
	stored, inserted, err := repo.CreateIfAbsent(context.Background(), tx, &domain.Entry{
		ID:        "entry-1",
		EntryDate: date,
		Type:      domain.EntryTypeCredit,
		Amount:    decimal.RequireFromString("1200"),
		PaymentID: "pay-1",
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(7), stored.Seq)
	assert.Equal(t, "pay-1", stored.PaymentID)
	assert.Empty(t, stored.ExpenseID)
	assert.True(t, stored.RunningBalance.Equal(decimal.RequireFromString("1200")))
	assert.True(t, stored.EntryDate.Equal(date))

	assertExpectations(t, pool)
}

func TestEntryRepositoryCreateIfAbsentReturnsExisting(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery("INSERT INTO entries").
		WillReturnRows(pgxmock.NewRows(entryColumns))
	pool.ExpectQuery("WHERE payment_id = \\$1").
		WithArgs(textOrNull("pay-1")).
		WillReturnRows(entryRow(pgxmock.NewRows(entryColumns), 3, "entry-old", "pay-1", "1200", "1500", date))

	repo := NewEntryRepository(pool)
	stored, inserted, err := repo.CreateIfAbsent(context.Background(), tx, &domain.Entry{
		ID:        "entry-new",
		EntryDate: date,
		Type:      domain.EntryTypeCredit,
		Amount:    decimal.RequireFromString("1200"),
		PaymentID: "pay-1",
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "entry-old", stored.ID)

	assertExpectations(t, pool)
}

func TestEntryRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM entries WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(entryColumns))

	_, err := NewEntryRepository(pool).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryRepositoryUpdateRunningBalances(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("UPDATE entries SET running_balance").
		WithArgs("e1", decimalToNumeric(decimal.RequireFromString("50"))).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UPDATE entries SET running_balance").
		WithArgs("e2", decimalToNumeric(decimal.RequireFromString("150"))).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UPDATE ledger_state SET revision").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := NewEntryRepository(pool).UpdateRunningBalances(context.Background(), tx, []*domain.Entry{
		{ID: "e1", RunningBalance: decimal.RequireFromString("50")},
		{ID: "e2", RunningBalance: decimal.RequireFromString("150")},
	})
	require.NoError(t, err)

	// Nothing changed: no statements at all.
	require.NoError(t, NewEntryRepository(pool).UpdateRunningBalances(context.Background(), tx, nil))

	assertExpectations(t, pool)
}

func TestEntryRepositoryUpdateRunningBalancesStopsOnError(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	boom := errors.New("boom")

	pool.ExpectExec("UPDATE entries SET running_balance").WillReturnError(boom)

	err := NewEntryRepository(pool).UpdateRunningBalances(context.Background(), tx, []*domain.Entry{
		{ID: "e1"}, {ID: "e2"},
	})
	assert.ErrorIs(t, err, boom)
	assertExpectations(t, pool)
}

func TestEntryRepositoryRevision(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT revision FROM ledger_state").
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(42)))

	rev, err := NewEntryRepository(pool).Revision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), rev)
}
