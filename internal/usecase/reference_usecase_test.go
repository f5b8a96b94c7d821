package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

func TestReferenceDataUseCase_RegisterPayment(t *testing.T) {
	h := newLedgerHarness(t, enabledAdvances())
	uc := usecase.NewReferenceDataUseCase(h.leases, h.payments, h.expenses, h.allocation, h.ids, false)
	ctx := context.Background()

	payment, err := uc.RegisterPayment(ctx, domain.Payment{
		LeaseID: "lease-1",
		Amount:  dec("900"),
		DueDate: day("2025-04-01"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, "Rent", payment.Type)
	assert.True(t, payment.AdvanceCovered.IsZero())

	stored, err := uc.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("900")))

	_, err = uc.RegisterPayment(ctx, domain.Payment{LeaseID: "lease-x", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrLeaseNotFound)

	_, err = uc.RegisterPayment(ctx, domain.Payment{Amount: dec("1")})
	assert.ErrorIs(t, err, usecase.ErrMissingLease)

	_, err = uc.RegisterPayment(ctx, domain.Payment{LeaseID: "lease-1", Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestReferenceDataUseCase_RegisterPaymentAutoApplies(t *testing.T) {
	h := newLedgerHarness(t, enabledAdvances())
	uc := usecase.NewReferenceDataUseCase(h.leases, h.payments, h.expenses, h.allocation, h.ids, true)
	ctx := context.Background()

	h.advances.Seed(activeAdvance("adv-1", "lease-1", "1000", "2025-01-01"))

	payment, err := uc.RegisterPayment(ctx, domain.Payment{LeaseID: "lease-1", Amount: dec("900"), DueDate: day("2025-04-01")})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
	assert.True(t, payment.AdvanceCovered.Equal(dec("900")))
}

func TestReferenceDataUseCase_RegisterLeaseAndExpense(t *testing.T) {
	h := newLedgerHarness(t, enabledAdvances())
	uc := usecase.NewReferenceDataUseCase(h.leases, h.payments, h.expenses, nil, h.ids, false)
	ctx := context.Background()

	lease, err := uc.RegisterLease(ctx, domain.Lease{Reference: "L-3", PropertyID: "prop-3"})
	require.NoError(t, err)
	got, err := uc.GetLease(ctx, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, "prop-3", got.PropertyID)

	expense, err := uc.RegisterExpense(ctx, domain.Expense{Category: "Tax", Amount: dec("75"), Date: day("2025-05-05")})
	require.NoError(t, err)
	assert.True(t, expense.Date.Equal(day("2025-05-05")))

	_, err = uc.RegisterExpense(ctx, domain.Expense{Amount: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}
