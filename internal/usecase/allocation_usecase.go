package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// AllocationUseCase consumes a lease's advance credit against its pending payments, oldest
// advance first.
type AllocationUseCase struct {
	txManager   TransactionManager
	advanceRepo AdvanceRepository
	paymentRepo PaymentRepository
	locker      LeaseLocker
	entries     AdvanceEntryWriter
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	enabled     bool
}

// NewAllocationUseCase creates an AllocationUseCase. When enabled is false every allocation
// returns a zero result without touching storage.
func NewAllocationUseCase(
	txManager TransactionManager,
	advanceRepo AdvanceRepository,
	paymentRepo PaymentRepository,
	locker LeaseLocker,
	entries AdvanceEntryWriter,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	enabled bool,
) *AllocationUseCase {
	return &AllocationUseCase{
		txManager:   txManager,
		advanceRepo: advanceRepo,
		paymentRepo: paymentRepo,
		locker:      locker,
		entries:     entries,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
		enabled:     enabled,
	}
}

// Allocation is the amount one advance contributed to a payment.
type Allocation struct {
	AdvanceID        string
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
}

// AllocationResult is the outcome of covering one payment. Warnings lists ledger writes that
// failed after the allocation committed; the allocation itself stands.
type AllocationResult struct {
	PaymentID   string
	AmountUsed  decimal.Decimal
	Remaining   decimal.Decimal
	Allocations []Allocation
	Warnings    []string
	FullyPaid   bool
}

// AllocationStats aggregates a lease-wide run.
type AllocationStats struct {
	LeaseID   string
	TotalUsed decimal.Decimal
	Warnings  []string
	Processed int
	FullyPaid int
}

// Enabled reports whether advance allocation is switched on.
func (uc *AllocationUseCase) Enabled() bool {
	return uc.enabled
}

// GetAvailableBalance sums the remaining balance of the lease's ACTIVE advances.
func (uc *AllocationUseCase) GetAvailableBalance(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	return uc.advanceRepo.SumActiveByLease(ctx, leaseID)
}

// ApplyAdvanceToPayment covers as much of the payment's outstanding amount as the lease's
// advances allow. The amount used never exceeds min(outstanding, available balance).
func (uc *AllocationUseCase) ApplyAdvanceToPayment(ctx context.Context, paymentID string) (*AllocationResult, error) {
	if !uc.enabled {
		return &AllocationResult{PaymentID: paymentID, AmountUsed: decimal.Zero, Remaining: decimal.Zero}, nil
	}

	start := time.Now()

	var (
		result  *AllocationResult
		payment *domain.Payment
		used    map[string]*domain.Advance
	)
	err := retry(ctx, uc.retrier, func() error {
		var err error
		result, payment, used, err = uc.applyToPayment(ctx, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recordUsageEntries(ctx, result, payment, used)

	if uc.metrics != nil {
		uc.metrics.AllocationDuration.Observe(time.Since(start).Seconds())
		uc.metrics.Allocations.WithLabelValues(allocationOutcome(result)).Inc()
		uc.metrics.AdvanceAmountUsed.Add(result.AmountUsed.InexactFloat64())
	}
	return result, nil
}

func (uc *AllocationUseCase) applyToPayment(ctx context.Context, paymentID string) (*AllocationResult, *domain.Payment, map[string]*domain.Advance, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// The lease id is needed to take the lease lock before any row lock.
	unlocked, err := uc.paymentRepo.GetByID(txCtx, paymentID)
	if err != nil {
		return nil, nil, nil, err
	}

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.locker.LockLeases(txCtx, tx, unlocked.LeaseID); err != nil {
		return nil, nil, nil, fmt.Errorf("lock lease: %w", err)
	}

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, paymentID)
	if err != nil {
		return nil, nil, nil, err
	}

	result := &AllocationResult{
		PaymentID:  payment.ID,
		AmountUsed: decimal.Zero,
		Remaining:  payment.Outstanding(),
	}
	if !payment.IsPending() || result.Remaining.LessThanOrEqual(decimal.Zero) {
		result.Remaining = decimal.Zero
		return result, payment, nil, nil
	}

	advances, err := uc.advanceRepo.ListActiveByLeaseForUpdate(txCtx, tx, payment.LeaseID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(advances) == 0 {
		return result, payment, nil, nil
	}
	domain.SortAdvancesFIFO(advances)

	now := time.Now().UTC()
	before := *payment
	used := make(map[string]*domain.Advance)

	for _, advance := range advances {
		if result.Remaining.IsZero() {
			break
		}
		if advance.RemainingBalance.IsZero() {
			continue
		}

		take, err := advance.Consume(result.Remaining, now)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := uc.advanceRepo.Update(txCtx, tx, advance); err != nil {
			return nil, nil, nil, err
		}

		result.Remaining = result.Remaining.Sub(take)
		result.AmountUsed = result.AmountUsed.Add(take)
		result.Allocations = append(result.Allocations, Allocation{
			AdvanceID:        advance.ID,
			Amount:           take,
			RemainingBalance: advance.RemainingBalance,
		})
		payment.RecordAdvanceUse(advance.ID, take, now)
		used[advance.ID] = advance

		event := newEvent(uc.idGen, domain.AggregateTypeAdvance, advance.ID, domain.EventTypeAdvanceApplied,
			domain.AdvanceAppliedEvent{
				AdvanceID:        advance.ID,
				PaymentID:        payment.ID,
				LeaseID:          payment.LeaseID,
				Amount:           take.String(),
				RemainingBalance: advance.RemainingBalance.String(),
			}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, nil, nil, err
		}
	}

	if result.AmountUsed.IsZero() {
		return result, payment, nil, nil
	}

	if result.Remaining.IsZero() {
		payment.MarkPaidByAdvance(now)
		result.FullyPaid = true

		event := newEvent(uc.idGen, domain.AggregateTypePayment, payment.ID, domain.EventTypePaymentCovered,
			domain.PaymentCoveredEvent{
				PaymentID: payment.ID,
				LeaseID:   payment.LeaseID,
				Reference: payment.Reference,
				Amount:    payment.Amount.String(),
			}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, nil, nil, err
		}
	}

	if err := uc.paymentRepo.UpdateSettlement(txCtx, tx, payment); err != nil {
		return nil, nil, nil, err
	}

	if err := auditTx(txCtx, tx, uc.auditRepo, uc.idGen, uc.metrics,
		domain.AuditActionAdvanceApply, domain.AggregateTypePayment, payment.ID, before, payment); err != nil {
		return nil, nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, nil, err
	}

	return result, payment, used, nil
}

// recordUsageEntries books one usage entry per allocation. Failures become warnings.
func (uc *AllocationUseCase) recordUsageEntries(ctx context.Context, result *AllocationResult, payment *domain.Payment, used map[string]*domain.Advance) {
	for _, alloc := range result.Allocations {
		advance := used[alloc.AdvanceID]
		if _, err := uc.entries.CreateAdvanceUsageEntry(ctx, advance, alloc.Amount, payment); err != nil {
			warning := fmt.Sprintf("usage entry for advance %s (%s) not recorded: %v",
				alloc.AdvanceID, alloc.Amount.StringFixed(2), err)
			result.Warnings = append(result.Warnings, warning)

			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("advance_id", alloc.AdvanceID).
				Str("payment_id", result.PaymentID).
				Str("amount", alloc.Amount.String()).
				Msg("advance usage entry failed")

			if uc.metrics != nil {
				uc.metrics.AllocationWarnings.Inc()
			}
		}
	}
}

// ApplyAdvanceToAllPendingPayments walks the lease's pending payments by due date and applies
// advance credit to each. A partially covered payment does not stop the walk.
func (uc *AllocationUseCase) ApplyAdvanceToAllPendingPayments(ctx context.Context, leaseID string) (*AllocationStats, error) {
	stats := &AllocationStats{LeaseID: leaseID, TotalUsed: decimal.Zero}
	if !uc.enabled {
		return stats, nil
	}

	available, err := uc.advanceRepo.SumActiveByLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if available.LessThanOrEqual(decimal.Zero) {
		return stats, nil
	}

	payments, err := uc.paymentRepo.ListPendingByLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	domain.SortPaymentsByDueDate(payments)

	for _, payment := range payments {
		result, err := uc.ApplyAdvanceToPayment(ctx, payment.ID)
		if err != nil {
			return stats, fmt.Errorf("apply advance to payment %s: %w", payment.ID, err)
		}

		stats.Processed++
		stats.TotalUsed = stats.TotalUsed.Add(result.AmountUsed)
		stats.Warnings = append(stats.Warnings, result.Warnings...)
		if result.FullyPaid {
			stats.FullyPaid++
		}
	}

	return stats, nil
}

func allocationOutcome(r *AllocationResult) string {
	switch {
	case r.FullyPaid:
		return "full"
	case r.AmountUsed.IsPositive():
		return "partial"
	}
	return "none"
}
