package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/rentledger/internal/domain"
)

var advanceColumns = []string{
	"id", "lease_id", "amount", "remaining_balance", "status", "payment_method", "reference",
	"notes", "paid_date", "transferred_from_id", "transferred_to_id", "created_at", "updated_at",
}

func TestAdvanceRepositoryListActiveByLeaseForUpdate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	paid := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery("FROM advances\\s+WHERE lease_id = \\$1 AND status = 'ACTIVE'").
		WithArgs("lease-1").
		WillReturnRows(pgxmock.NewRows(advanceColumns).AddRow(
			"adv-1", "lease-1",
			decimalToNumeric(decimal.RequireFromString("1000")),
			decimalToNumeric(decimal.RequireFromString("250.50")),
			"ACTIVE", "Cash", "ADV-1", "",
			timeToPgTimestamptz(paid), pgtype.Text{}, pgtype.Text{},
			timeToPgTimestamptz(paid), timeToPgTimestamptz(paid),
		))

	advances, err := NewAdvanceRepository(pool).ListActiveByLeaseForUpdate(context.Background(), tx, "lease-1")
	require.NoError(t, err)
	require.Len(t, advances, 1)
	assert.Equal(t, domain.AdvanceStatusActive, advances[0].Status)
	assert.True(t, advances[0].RemainingBalance.Equal(decimal.RequireFromString("250.50")))
	assert.Empty(t, advances[0].TransferredFromID)

	assertExpectations(t, pool)
}

func TestAdvanceRepositorySumActiveByLease(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("COALESCE\\(SUM\\(remaining_balance\\), 0\\)").
		WithArgs("lease-1").
		WillReturnRows(pgxmock.NewRows([]string{"total"}).AddRow(decimalToNumeric(decimal.RequireFromString("150"))))

	total, err := NewAdvanceRepository(pool).SumActiveByLease(context.Background(), "lease-1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("150")))
}

func TestAdvanceRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM advances WHERE id = \\$1").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(advanceColumns))

	_, err := NewAdvanceRepository(pool).GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrAdvanceNotFound)
}

func TestAdvanceRepositoryUpdate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	at := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	pool.ExpectExec("UPDATE advances").
		WithArgs("adv-1", decimalToNumeric(decimal.Zero), "TRANSFERRED", "moved", textOrNull("adv-2"), timeToPgTimestamptz(at)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := NewAdvanceRepository(pool).Update(context.Background(), tx, &domain.Advance{
		ID:               "adv-1",
		RemainingBalance: decimal.Zero,
		Status:           domain.AdvanceStatusTransferred,
		Notes:            "moved",
		TransferredToID:  "adv-2",
		UpdatedAt:        at,
	})
	require.NoError(t, err)
	assertExpectations(t, pool)
}
