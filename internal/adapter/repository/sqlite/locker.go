package sqlite

import (
	"context"

	"github.com/iho/rentledger/internal/usecase"
)

// LeaseLocker implements usecase.LeaseLocker. BEGIN IMMEDIATE already holds the database
// write lock for the whole transaction, so there is nothing finer to lock.
type LeaseLocker struct{}

// NewLeaseLocker creates a LeaseLocker.
func NewLeaseLocker() *LeaseLocker {
	return &LeaseLocker{}
}

func (LeaseLocker) LockLeases(context.Context, usecase.Transaction, ...string) error {
	return nil
}

func (LeaseLocker) LockLedger(context.Context, usecase.Transaction) error {
	return nil
}
