package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// BalanceUseCase maintains the stored running balances of the ledger.
type BalanceUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	locker     LeaseLocker
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

func NewBalanceUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	locker LeaseLocker,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		locker:     locker,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metrics,
	}
}

// RecalculationResult summarizes a full recompute.
type RecalculationResult struct {
	FinalBalance decimal.Decimal
	Entries      int
	Updated      int
}

// Recalculate rewrites every running balance from the full ordered entry set.
// Repeated calls with no new entries update nothing.
func (uc *BalanceUseCase) Recalculate(ctx context.Context) (*RecalculationResult, error) {
	start := time.Now()

	var result *RecalculationResult
	err := retry(ctx, uc.retrier, func() error {
		var err error
		result, err = uc.recalculate(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Recalculations.Inc()
		uc.metrics.RecalculationDuration.Observe(time.Since(start).Seconds())
	}
	return result, nil
}

func (uc *BalanceUseCase) recalculate(ctx context.Context) (*RecalculationResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.locker.LockLedger(txCtx, tx); err != nil {
		return nil, fmt.Errorf("lock ledger: %w", err)
	}

	_, result, err := uc.RecalculateTx(txCtx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := newEvent(uc.idGen, domain.AggregateTypeLedger, "ledger", domain.EventTypeLedgerRecalculated,
		domain.LedgerRecalculatedEvent{
			Entries:      result.Entries,
			Updated:      result.Updated,
			FinalBalance: result.FinalBalance.String(),
		}, now)
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := auditTx(txCtx, tx, uc.auditRepo, uc.idGen, uc.metrics,
		domain.AuditActionLedgerRecalculate, domain.AggregateTypeLedger, "ledger", nil, result); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return result, nil
}

// RecalculateTx folds the ledger inside tx and persists changed balances. The caller must hold
// the ledger lock. It returns the entries in ledger order with their new balances.
func (uc *BalanceUseCase) RecalculateTx(ctx context.Context, tx Transaction) ([]*domain.Entry, *RecalculationResult, error) {
	entries, err := uc.entryRepo.ListOrdered(ctx, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}

	changed, final := domain.FoldRunningBalances(entries)
	if len(changed) > 0 {
		if err := uc.entryRepo.UpdateRunningBalances(ctx, tx, changed); err != nil {
			return nil, nil, fmt.Errorf("update running balances: %w", err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.RecalculatedEntries.Add(float64(len(changed)))
	}

	return entries, &RecalculationResult{
		FinalBalance: final,
		Entries:      len(entries),
		Updated:      len(changed),
	}, nil
}
