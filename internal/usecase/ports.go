package usecase

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"time"
)

// LeaseLocker serializes writers within a transaction. Locks are released on commit or rollback.
// Callers take lease locks before the ledger lock.
type LeaseLocker interface {
	// LockLeases locks every lease id in sorted order.
	LockLeases(ctx context.Context, tx Transaction, leaseIDs ...string) error
	// LockLedger serializes running-balance maintenance.
	LockLedger(ctx context.Context, tx Transaction) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
