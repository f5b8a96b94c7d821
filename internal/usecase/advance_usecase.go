package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// AdvanceOptions toggles the optional side effects of the advance lifecycle.
type AdvanceOptions struct {
	// Enabled gates creation of new advances. Refunds and transfers stay available.
	Enabled bool
	// RecordDeposits books an ADVANCE_DEPOSIT credit when an advance is created.
	RecordDeposits bool
	// AutoApply covers the lease's pending payments right after credit arrives.
	AutoApply bool
}

// AdvanceUseCase creates, refunds, and transfers advance payments.
type AdvanceUseCase struct {
	txManager   TransactionManager
	advanceRepo AdvanceRepository
	leaseRepo   LeaseRepository
	locker      LeaseLocker
	entries     AdvanceEntryWriter
	applier     AdvanceApplier
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	opts        AdvanceOptions
}

func NewAdvanceUseCase(
	txManager TransactionManager,
	advanceRepo AdvanceRepository,
	leaseRepo LeaseRepository,
	locker LeaseLocker,
	entries AdvanceEntryWriter,
	applier AdvanceApplier,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	opts AdvanceOptions,
) *AdvanceUseCase {
	return &AdvanceUseCase{
		txManager:   txManager,
		advanceRepo: advanceRepo,
		leaseRepo:   leaseRepo,
		locker:      locker,
		entries:     entries,
		applier:     applier,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
		opts:        opts,
	}
}

// CreateAdvanceInput represents input for recording a prepayment.
type CreateAdvanceInput struct {
	PaidDate      *time.Time
	LeaseID       string
	PaymentMethod string
	Reference     string
	Notes         string
	Amount        decimal.Decimal
}

// CreateAdvancePayment records new ACTIVE credit for a lease with remaining = amount.
func (uc *AdvanceUseCase) CreateAdvancePayment(ctx context.Context, input CreateAdvanceInput) (*domain.Advance, error) {
	if !uc.opts.Enabled {
		return nil, domain.ErrAdvanceDisabled
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateLength("reference", input.Reference, domain.MaxReferenceLength); err != nil {
		return nil, err
	}
	if _, err := uc.leaseRepo.GetByID(ctx, input.LeaseID); err != nil {
		return nil, err
	}

	var advance *domain.Advance
	err := retry(ctx, uc.retrier, func() error {
		var err error
		advance, err = uc.createAdvance(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdvancesCreated.Inc()
	}

	uc.autoApply(ctx, advance.LeaseID)
	return advance, nil
}

func (uc *AdvanceUseCase) createAdvance(ctx context.Context, input CreateAdvanceInput) (*domain.Advance, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.locker.LockLeases(txCtx, tx, input.LeaseID); err != nil {
		return nil, fmt.Errorf("lock lease: %w", err)
	}

	now := time.Now().UTC()
	paidDate := now
	if input.PaidDate != nil {
		paidDate = input.PaidDate.UTC()
	}

	advance := &domain.Advance{
		ID:               uc.idGen.Generate(),
		LeaseID:          input.LeaseID,
		Amount:           input.Amount,
		RemainingBalance: input.Amount,
		Status:           domain.AdvanceStatusActive,
		PaymentMethod:    strings.TrimSpace(input.PaymentMethod),
		Reference:        input.Reference,
		Notes:            input.Notes,
		PaidDate:         paidDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := advance.Validate(); err != nil {
		return nil, err
	}

	if err := uc.advanceRepo.Create(txCtx, tx, advance); err != nil {
		return nil, err
	}

	if uc.opts.RecordDeposits {
		if _, err := uc.entries.CreateAdvanceDepositEntryTx(txCtx, tx, advance); err != nil {
			return nil, fmt.Errorf("record deposit entry: %w", err)
		}
	}

	event := newEvent(uc.idGen, domain.AggregateTypeAdvance, advance.ID, domain.EventTypeAdvanceCreated,
		domain.AdvanceCreatedEvent{
			AdvanceID: advance.ID,
			LeaseID:   advance.LeaseID,
			Amount:    advance.Amount.String(),
			Method:    advance.PaymentMethod,
		}, now)
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := auditTx(txCtx, tx, uc.auditRepo, uc.idGen, uc.metrics,
		domain.AuditActionAdvanceCreate, domain.AggregateTypeAdvance, advance.ID, nil, advance); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return advance, nil
}

// RefundAdvancePayment marks the advance REFUNDED and zeroes its balance. No ledger entry is
// written; use RecordAdvanceRefund for a refund that leaves a ledger trace.
func (uc *AdvanceUseCase) RefundAdvancePayment(ctx context.Context, advanceID, reason string) (*domain.Advance, error) {
	advance, _, err := uc.refund(ctx, advanceID, reason, false)
	return advance, err
}

// RecordAdvanceRefund refunds the advance and books an ADVANCE_REFUND debit for the balance
// that was still available, in one transaction. The entry is nil when nothing was left.
func (uc *AdvanceUseCase) RecordAdvanceRefund(ctx context.Context, advanceID, reason string) (*domain.Advance, *domain.Entry, error) {
	return uc.refund(ctx, advanceID, reason, true)
}

func (uc *AdvanceUseCase) refund(ctx context.Context, advanceID, reason string, withEntry bool) (*domain.Advance, *domain.Entry, error) {
	var (
		advance *domain.Advance
		entry   *domain.Entry
	)
	err := retry(ctx, uc.retrier, func() error {
		var err error
		advance, entry, err = uc.refundOnce(ctx, advanceID, reason, withEntry)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdvanceTransitions.WithLabelValues(string(domain.AdvanceStatusRefunded)).Inc()
	}
	return advance, entry, nil
}

func (uc *AdvanceUseCase) refundOnce(ctx context.Context, advanceID, reason string, withEntry bool) (*domain.Advance, *domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	unlocked, err := uc.advanceRepo.GetByID(txCtx, advanceID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.locker.LockLeases(txCtx, tx, unlocked.LeaseID); err != nil {
		return nil, nil, fmt.Errorf("lock lease: %w", err)
	}

	advance, err := uc.advanceRepo.GetByIDForUpdate(txCtx, tx, advanceID)
	if err != nil {
		return nil, nil, err
	}
	before := *advance

	now := time.Now().UTC()
	refunded, err := advance.Refund(reason, now)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.advanceRepo.Update(txCtx, tx, advance); err != nil {
		return nil, nil, err
	}

	var entry *domain.Entry
	if withEntry && refunded.IsPositive() {
		entry, err = uc.entries.CreateAdvanceRefundEntryTx(txCtx, tx, advance, refunded, reason)
		if err != nil {
			return nil, nil, fmt.Errorf("record refund entry: %w", err)
		}
	}

	event := newEvent(uc.idGen, domain.AggregateTypeAdvance, advance.ID, domain.EventTypeAdvanceRefunded,
		domain.AdvanceRefundedEvent{
			AdvanceID: advance.ID,
			LeaseID:   advance.LeaseID,
			Amount:    refunded.String(),
			Reason:    reason,
		}, now)
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, nil, err
	}

	if err := auditTx(txCtx, tx, uc.auditRepo, uc.idGen, uc.metrics,
		domain.AuditActionAdvanceRefund, domain.AggregateTypeAdvance, advance.ID, before, advance); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}
	return advance, entry, nil
}

// TransferAdvance moves the unused balance of an advance to a new advance on targetLeaseID.
// The total remaining balance across both advances is unchanged.
func (uc *AdvanceUseCase) TransferAdvance(ctx context.Context, advanceID, targetLeaseID, reason string) (*domain.Advance, error) {
	source, err := uc.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return nil, err
	}
	if source.LeaseID == targetLeaseID {
		return nil, domain.ErrSameLease
	}
	if _, err := uc.leaseRepo.GetByID(ctx, targetLeaseID); err != nil {
		return nil, err
	}

	var target *domain.Advance
	err = retry(ctx, uc.retrier, func() error {
		var err error
		target, err = uc.transfer(ctx, source.LeaseID, advanceID, targetLeaseID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdvanceTransitions.WithLabelValues(string(domain.AdvanceStatusTransferred)).Inc()
	}

	uc.autoApply(ctx, targetLeaseID)
	return target, nil
}

func (uc *AdvanceUseCase) transfer(ctx context.Context, sourceLeaseID, advanceID, targetLeaseID, reason string) (*domain.Advance, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.locker.LockLeases(txCtx, tx, sourceLeaseID, targetLeaseID); err != nil {
		return nil, fmt.Errorf("lock leases: %w", err)
	}

	source, err := uc.advanceRepo.GetByIDForUpdate(txCtx, tx, advanceID)
	if err != nil {
		return nil, err
	}
	before := *source

	now := time.Now().UTC()
	target, err := source.TransferTo(uc.idGen.Generate(), targetLeaseID, reason, now)
	if err != nil {
		return nil, err
	}

	if err := uc.advanceRepo.Create(txCtx, tx, target); err != nil {
		return nil, err
	}
	if err := uc.advanceRepo.Update(txCtx, tx, source); err != nil {
		return nil, err
	}

	event := newEvent(uc.idGen, domain.AggregateTypeAdvance, source.ID, domain.EventTypeAdvanceTransferred,
		domain.AdvanceTransferredEvent{
			SourceAdvanceID: source.ID,
			TargetAdvanceID: target.ID,
			FromLeaseID:     source.LeaseID,
			ToLeaseID:       target.LeaseID,
			Amount:          target.Amount.String(),
		}, now)
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := auditTx(txCtx, tx, uc.auditRepo, uc.idGen, uc.metrics,
		domain.AuditActionAdvanceTransfer, domain.AggregateTypeAdvance, source.ID, before, source); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return target, nil
}

// GetAdvance retrieves an advance by ID.
func (uc *AdvanceUseCase) GetAdvance(ctx context.Context, id string) (*domain.Advance, error) {
	return uc.advanceRepo.GetByID(ctx, id)
}

// ListAdvances lists a lease's advances, optionally filtered by status.
func (uc *AdvanceUseCase) ListAdvances(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error) {
	return uc.advanceRepo.ListByLease(ctx, leaseID, status)
}

// AdvanceHistory is the audit trail and emitted events of one advance.
type AdvanceHistory struct {
	Advance *domain.Advance
	Audit   []*domain.AuditLog
	Events  []*domain.OutboxEvent
}

// historyEventLimit caps the events returned with an advance's history.
const historyEventLimit = 100

// GetAdvanceHistory returns an advance with its audit logs (newest first) and outbox events.
func (uc *AdvanceUseCase) GetAdvanceHistory(ctx context.Context, id string) (*AdvanceHistory, error) {
	advance, err := uc.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history := &AdvanceHistory{Advance: advance}
	if uc.auditRepo != nil {
		if history.Audit, err = uc.auditRepo.GetByResourceID(ctx, domain.AggregateTypeAdvance, id); err != nil {
			return nil, fmt.Errorf("load audit logs: %w", err)
		}
	}
	if history.Events, err = uc.outboxRepo.GetByAggregate(ctx, domain.AggregateTypeAdvance, id, historyEventLimit, 0); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return history, nil
}

// autoApply covers pending payments after new credit lands. Failures are logged only: the
// credit is already committed and the sweep worker retries later.
func (uc *AdvanceUseCase) autoApply(ctx context.Context, leaseID string) {
	if !uc.opts.AutoApply || uc.applier == nil {
		return
	}

	stats, err := uc.applier.ApplyAdvanceToAllPendingPayments(ctx, leaseID)
	logger := zerolog.Ctx(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("lease_id", leaseID).Msg("auto-apply of advance failed")
		return
	}
	logger.Info().
		Str("lease_id", leaseID).
		Int("processed", stats.Processed).
		Int("fully_paid", stats.FullyPaid).
		Str("total_used", stats.TotalUsed.String()).
		Msg("advance auto-applied")
}
