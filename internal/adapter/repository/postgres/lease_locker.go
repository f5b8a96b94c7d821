package postgres

import (
	"context"
	"sort"

	"github.com/iho/rentledger/internal/infrastructure/postgres/generated"
	"github.com/iho/rentledger/internal/usecase"
)

// LeaseLocker implements usecase.LeaseLocker with transaction-scoped advisory locks.
// Lease locks are taken in sorted order so two writers touching the same pair of leases
// cannot deadlock. The ledger lock is the row lock on ledger_state.
type LeaseLocker struct{}

// NewLeaseLocker creates a new LeaseLocker.
func NewLeaseLocker() *LeaseLocker {
	return &LeaseLocker{}
}

// LockLeases takes an advisory lock per distinct lease id.
func (l *LeaseLocker) LockLeases(ctx context.Context, tx usecase.Transaction, leaseIDs ...string) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	ids := append([]string(nil), leaseIDs...)
	sort.Strings(ids)

	var prev string
	for i, id := range ids {
		if i > 0 && id == prev {
			continue
		}
		prev = id

		if err := queries.LockLease(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// LockLedger locks the ledger_state row until the transaction ends.
func (l *LeaseLocker) LockLedger(ctx context.Context, tx usecase.Transaction) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	_, err := queries.LockLedgerState(ctx)

	return err
}
