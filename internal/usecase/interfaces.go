package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

// EntryFilter narrows entry listings. Zero values mean "any".
type EntryFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       domain.EntryType
	Category   domain.Category
	PropertyID string
	AdvanceID  string
	Limit      int
	Offset     int
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	// CreateIfAbsent inserts entry unless an entry already exists for its payment or expense.
	// It returns the stored row and whether this call inserted it.
	CreateIfAbsent(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// GetTail returns the last entry in ledger order, or domain.ErrEntryNotFound.
	GetTail(ctx context.Context, tx Transaction) (*domain.Entry, error)
	ListOrdered(ctx context.Context, tx Transaction) ([]*domain.Entry, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	UpdateRunningBalances(ctx context.Context, tx Transaction, entries []*domain.Entry) error
	// Revision changes whenever an entry is inserted or a running balance is rewritten.
	Revision(ctx context.Context) (int64, error)
}

// AdvanceRepository defines data access for advance payments.
type AdvanceRepository interface {
	Create(ctx context.Context, tx Transaction, advance *domain.Advance) error
	GetByID(ctx context.Context, id string) (*domain.Advance, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Advance, error)
	// ListActiveByLeaseForUpdate locks the lease's ACTIVE advances, oldest paid date first.
	ListActiveByLeaseForUpdate(ctx context.Context, tx Transaction, leaseID string) ([]*domain.Advance, error)
	ListByLease(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Advance, error)
	SumActiveByLease(ctx context.Context, leaseID string) (decimal.Decimal, error)
	ListLeaseIDsWithActive(ctx context.Context) ([]string, error)
	Update(ctx context.Context, tx Transaction, advance *domain.Advance) error
}

// PaymentRepository defines data access for the payments the ledger settles.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Payment, error)
	// ListPendingByLease returns unpaid payments ordered by due date, then id.
	ListPendingByLease(ctx context.Context, leaseID string) ([]*domain.Payment, error)
	ListOvercovered(ctx context.Context) ([]*domain.Payment, error)
	UpdateSettlement(ctx context.Context, tx Transaction, payment *domain.Payment) error
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
}

// LeaseRepository defines data access for leases.
type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	GetByID(ctx context.Context, id string) (*domain.Lease, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors (deadlocks, busy databases).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// AdvanceEntryWriter books the ledger side of advance movements.
type AdvanceEntryWriter interface {
	CreateAdvanceUsageEntry(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, payment *domain.Payment) (*domain.Entry, error)
	CreateAdvanceDepositEntryTx(ctx context.Context, tx Transaction, advance *domain.Advance) (*domain.Entry, error)
	CreateAdvanceRefundEntryTx(ctx context.Context, tx Transaction, advance *domain.Advance, amount decimal.Decimal, reason string) (*domain.Entry, error)
}

// AdvanceApplier covers a lease's pending payments from its advances.
type AdvanceApplier interface {
	ApplyAdvanceToAllPendingPayments(ctx context.Context, leaseID string) (*AllocationStats, error)
}
