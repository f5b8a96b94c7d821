package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
	"github.com/iho/rentledger/internal/usecase/mocks"
)

// ledgerHarness wires the real use cases over in-memory repositories.
type ledgerHarness struct {
	entries  *mocks.MockEntryRepository
	advances *mocks.MockAdvanceRepository
	payments *mocks.MockPaymentRepository
	expenses *mocks.MockExpenseRepository
	leases   *mocks.MockLeaseRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	txm      *mocks.MockTransactionManager
	ids      *mocks.MockIDGenerator

	balance    *usecase.BalanceUseCase
	entry      *usecase.EntryUseCase
	allocation *usecase.AllocationUseCase
	advance    *usecase.AdvanceUseCase
}

func newLedgerHarness(t *testing.T, opts usecase.AdvanceOptions) *ledgerHarness {
	t.Helper()

	h := &ledgerHarness{
		entries:  mocks.NewMockEntryRepository(),
		advances: mocks.NewMockAdvanceRepository(),
		payments: mocks.NewMockPaymentRepository(),
		expenses: mocks.NewMockExpenseRepository(),
		leases: mocks.NewMockLeaseRepository(
			&domain.Lease{ID: "lease-1", PropertyID: "prop-1", OwnerID: "owner-1"},
			&domain.Lease{ID: "lease-2", PropertyID: "prop-2", OwnerID: "owner-1"},
		),
		outbox: mocks.NewMockOutboxRepository(),
		audit:  mocks.NewMockAuditRepository(),
		txm:    mocks.NewMockTransactionManager(),
		ids:    mocks.NewMockIDGenerator(),
	}
	locker := mocks.NoopLocker{}

	h.balance = usecase.NewBalanceUseCase(h.txm, h.entries, locker, h.outbox, h.audit, h.ids, nil, nil)
	h.entry = usecase.NewEntryUseCase(h.txm, h.entries, h.payments, h.expenses, h.leases, locker,
		h.balance, h.outbox, h.audit, h.ids, nil, nil)
	h.allocation = usecase.NewAllocationUseCase(h.txm, h.advances, h.payments, locker, h.entry,
		h.outbox, h.audit, h.ids, nil, nil, opts.Enabled)
	h.advance = usecase.NewAdvanceUseCase(h.txm, h.advances, h.leases, locker, h.entry, h.allocation,
		h.outbox, h.audit, h.ids, nil, nil, opts)
	return h
}

func enabledAdvances() usecase.AdvanceOptions {
	return usecase.AdvanceOptions{Enabled: true}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func activeAdvance(id, leaseID, amount, paid string) *domain.Advance {
	return &domain.Advance{
		ID:               id,
		LeaseID:          leaseID,
		Amount:           dec(amount),
		RemainingBalance: dec(amount),
		Status:           domain.AdvanceStatusActive,
		PaidDate:         day(paid),
	}
}

func pendingPayment(id, leaseID, amount, due string) *domain.Payment {
	return &domain.Payment{
		ID:             id,
		LeaseID:        leaseID,
		Type:           "Rent",
		Amount:         dec(amount),
		AdvanceCovered: decimal.Zero,
		Status:         domain.PaymentStatusPending,
		DueDate:        day(due),
	}
}
