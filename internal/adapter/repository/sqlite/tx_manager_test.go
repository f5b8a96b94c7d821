package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

func TestTxManagerBeginCommit(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := NewTxManager(db).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	// The deferred rollback every use case runs must be harmless after commit.
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback after commit: %v", err)
	}

	assertSQLExpectations(t, mock)
}

func TestTxManagerBeginError(t *testing.T) {
	db, mock := newSQLMock(t)
	beginErr := errors.New("database is locked")
	mock.ExpectBegin().WillReturnError(beginErr)

	tx, err := NewTxManager(db).Begin(context.Background())
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error, got err=%v tx=%v", err, tx)
	}
}

func TestTxRollback(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := NewTxManager(db).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertSQLExpectations(t, mock)
}

func TestEntryRepositoryConflictReturnsStoredRow(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO entries`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM entries WHERE payment_id = \?`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"seq", "id", "entry_date", "description", "amount", "entry_type", "category", "reference",
			"payment_id", "expense_id", "advance_id", "property_id", "owner_id", "organization_id",
			"company_id", "notes", "running_balance", "created_at",
		}).AddRow(
			int64(7), "entry-original", "2024-03-01", "Rent payment", "1200", "CREDIT", "RENT", "",
			"pay-1", nil, nil, "prop-1", "owner-1", "", "", "", "1200", "2024-03-01T10:00:00.000000000Z",
		))
	mock.ExpectRollback()

	tx, err := NewTxManager(db).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	entry := newTestEntry("entry-new", "pay-1")
	stored, inserted, err := NewEntryRepository(db).CreateIfAbsent(context.Background(), tx, entry)
	if err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if inserted {
		t.Fatalf("expected the conflicting insert to be skipped")
	}
	if stored.ID != "entry-original" || stored.Seq != 7 {
		t.Fatalf("expected the stored entry, got %+v", stored)
	}
	if !stored.RunningBalance.Equal(entry.Amount) {
		t.Fatalf("unexpected running balance %s", stored.RunningBalance)
	}
}

func TestEntryRepositoryUpdateRunningBalancesEmpty(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectBegin()

	tx, err := NewTxManager(db).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := NewEntryRepository(db).UpdateRunningBalances(context.Background(), tx, nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}

	assertSQLExpectations(t, mock)
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func assertSQLExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func newTestEntry(id, paymentID string) *domain.Entry {
	return &domain.Entry{
		ID:             id,
		EntryDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:    "Rent payment",
		Amount:         decimal.NewFromInt(1200),
		Type:           domain.EntryTypeCredit,
		Category:       domain.CategoryRent,
		PaymentID:      paymentID,
		RunningBalance: decimal.NewFromInt(1200),
		CreatedAt:      time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}
