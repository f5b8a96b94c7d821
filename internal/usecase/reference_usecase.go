package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

// ErrMissingLease is returned when a payment is registered without a lease id.
var ErrMissingLease = errors.New("lease id is required")

// ReferenceDataUseCase receives the leases, payments and expenses the ledger reads.
type ReferenceDataUseCase struct {
	leaseRepo   LeaseRepository
	paymentRepo PaymentRepository
	expenseRepo ExpenseRepository
	applier     AdvanceApplier
	idGen       IDGenerator
	autoApply   bool
}

// NewReferenceDataUseCase creates a ReferenceDataUseCase. A nil applier disables auto-apply.
func NewReferenceDataUseCase(
	leaseRepo LeaseRepository,
	paymentRepo PaymentRepository,
	expenseRepo ExpenseRepository,
	applier AdvanceApplier,
	idGen IDGenerator,
	autoApply bool,
) *ReferenceDataUseCase {
	return &ReferenceDataUseCase{
		leaseRepo:   leaseRepo,
		paymentRepo: paymentRepo,
		expenseRepo: expenseRepo,
		applier:     applier,
		idGen:       idGen,
		autoApply:   autoApply,
	}
}

// RegisterLease stores a lease and its scope tags.
func (uc *ReferenceDataUseCase) RegisterLease(ctx context.Context, lease domain.Lease) (*domain.Lease, error) {
	if lease.ID == "" {
		lease.ID = uc.idGen.Generate()
	}
	if err := domain.ValidateLength("reference", lease.Reference, domain.MaxReferenceLength); err != nil {
		return nil, err
	}
	if err := uc.leaseRepo.Create(ctx, &lease); err != nil {
		return nil, err
	}
	return &lease, nil
}

// RegisterPayment stores a rent charge. New payments start Pending unless marked Paid.
func (uc *ReferenceDataUseCase) RegisterPayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	if strings.TrimSpace(payment.LeaseID) == "" {
		return nil, ErrMissingLease
	}
	if err := domain.ValidateAmount(payment.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateLength("reference", payment.Reference, domain.MaxReferenceLength); err != nil {
		return nil, err
	}
	if _, err := uc.leaseRepo.GetByID(ctx, payment.LeaseID); err != nil {
		return nil, err
	}

	if payment.ID == "" {
		payment.ID = uc.idGen.Generate()
	}
	switch payment.Status {
	case domain.PaymentStatusPaid:
		if payment.PaidDate == nil {
			now := time.Now().UTC()
			payment.PaidDate = &now
		}
	case domain.PaymentStatusOverdue:
	default:
		payment.Status = domain.PaymentStatusPending
	}
	if payment.Type == "" {
		payment.Type = "Rent"
	}
	payment.DueDate = domain.DateOf(payment.DueDate)
	payment.AdvanceCovered = decimal.Zero

	if err := uc.paymentRepo.Create(ctx, &payment); err != nil {
		return nil, err
	}

	if uc.autoApply && uc.applier != nil && payment.IsPending() {
		if _, err := uc.applier.ApplyAdvanceToAllPendingPayments(ctx, payment.LeaseID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("payment_id", payment.ID).Msg("auto-apply after payment registration failed")
		}
		if stored, err := uc.paymentRepo.GetByID(ctx, payment.ID); err == nil {
			return stored, nil
		}
	}
	return &payment, nil
}

// RegisterExpense stores a property expense.
func (uc *ReferenceDataUseCase) RegisterExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if err := domain.ValidateAmount(expense.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateLength("description", expense.Description, domain.MaxDescriptionLength); err != nil {
		return nil, err
	}
	if expense.ID == "" {
		expense.ID = uc.idGen.Generate()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}
	expense.Date = domain.DateOf(expense.Date)

	if err := uc.expenseRepo.Create(ctx, &expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return &expense, nil
}

// GetPayment retrieves a payment by ID.
func (uc *ReferenceDataUseCase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// GetLease retrieves a lease by ID.
func (uc *ReferenceDataUseCase) GetLease(ctx context.Context, id string) (*domain.Lease, error) {
	return uc.leaseRepo.GetByID(ctx, id)
}
