package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestLeaseLockerLocksSortedDistinctLeases(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("pg_advisory_xact_lock").WithArgs("lease-a").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	pool.ExpectExec("pg_advisory_xact_lock").WithArgs("lease-b").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	locker := NewLeaseLocker()
	require.NoError(t, locker.LockLeases(context.Background(), tx, "lease-b", "lease-a", "lease-b"))

	assertExpectations(t, pool)
}

func TestLeaseLockerLockLedger(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("FROM ledger_state WHERE id = 1 FOR UPDATE").
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(3)))

	require.NoError(t, NewLeaseLocker().LockLedger(context.Background(), tx))

	assertExpectations(t, pool)
}
