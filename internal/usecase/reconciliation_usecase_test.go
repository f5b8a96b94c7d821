package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

func TestReconciliationUseCase_ConsistentLedger(t *testing.T) {
	h := newLedgerHarness(t, enabledAdvances())
	ctx := context.Background()

	h.entries.Seed(
		&domain.Entry{ID: "e1", EntryDate: day("2025-01-01"), Type: domain.EntryTypeCredit, Amount: dec("100"), RunningBalance: dec("100")},
		&domain.Entry{ID: "e2", EntryDate: day("2025-01-02"), Type: domain.EntryTypeDebit, Amount: dec("30"), RunningBalance: dec("70")},
	)
	h.advances.Seed(activeAdvance("adv-1", "lease-1", "50", "2025-01-01"))

	uc := usecase.NewReconciliationUseCase(h.txm, h.entries, h.advances, h.payments, h.balance)

	report, err := uc.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 2, report.Entries)
	assert.Equal(t, 1, report.Advances)
	assert.True(t, report.FinalBalance.Equal(dec("70")))
}

func TestReconciliationUseCase_DetectsAndRepairsDrift(t *testing.T) {
	h := newLedgerHarness(t, enabledAdvances())
	ctx := context.Background()

	h.entries.Seed(
		&domain.Entry{ID: "e1", EntryDate: day("2025-01-01"), Type: domain.EntryTypeCredit, Amount: dec("100"), RunningBalance: dec("100")},
		&domain.Entry{ID: "e2", EntryDate: day("2025-01-02"), Type: domain.EntryTypeDebit, Amount: dec("30"), RunningBalance: dec("130")},
	)

	used := activeAdvance("adv-1", "lease-1", "50", "2025-01-01")
	used.Status = domain.AdvanceStatusUsed
	used.RemainingBalance = dec("10")
	h.advances.Seed(used)

	over := pendingPayment("pay-1", "lease-1", "100", "2025-02-01")
	over.AdvanceCovered = dec("120")
	h.payments.Seed(over)

	uc := usecase.NewReconciliationUseCase(h.txm, h.entries, h.advances, h.payments, h.balance)

	report, err := uc.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	require.Len(t, report.BalanceMismatches, 1)
	assert.Equal(t, "e2", report.BalanceMismatches[0].EntryID)
	assert.True(t, report.BalanceMismatches[0].Stored.Equal(dec("130")))
	assert.True(t, report.BalanceMismatches[0].Expected.Equal(dec("70")))
	require.Len(t, report.AdvanceViolations, 1)
	assert.Equal(t, "adv-1", report.AdvanceViolations[0].AdvanceID)
	assert.Equal(t, []string{"pay-1"}, report.OvercoveredPayments)

	// The check itself never writes.
	e2, _ := h.entries.GetByID(ctx, "e2")
	assert.True(t, e2.RunningBalance.Equal(dec("130")))

	result, err := uc.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	e2, _ = h.entries.GetByID(ctx, "e2")
	assert.True(t, e2.RunningBalance.Equal(dec("70")))
}
