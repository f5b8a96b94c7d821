package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

// ReconciliationUseCase audits stored ledger state against what it should be.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	advanceRepo AdvanceRepository
	paymentRepo PaymentRepository
	balance     *BalanceUseCase
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	advanceRepo AdvanceRepository,
	paymentRepo PaymentRepository,
	balance *BalanceUseCase,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		advanceRepo: advanceRepo,
		paymentRepo: paymentRepo,
		balance:     balance,
	}
}

// BalanceMismatch is an entry whose stored running balance disagrees with a fresh fold.
type BalanceMismatch struct {
	EntryID  string          `json:"entry_id"`
	Stored   decimal.Decimal `json:"stored"`
	Expected decimal.Decimal `json:"expected"`
}

// AdvanceViolation is an advance breaking a balance or status invariant.
type AdvanceViolation struct {
	AdvanceID string `json:"advance_id"`
	Reason    string `json:"reason"`
}

// ConsistencyReport is the outcome of CheckConsistency.
type ConsistencyReport struct {
	CheckedAt           time.Time
	FinalBalance        decimal.Decimal
	BalanceMismatches   []BalanceMismatch
	AdvanceViolations   []AdvanceViolation
	OvercoveredPayments []string
	Entries             int
	Advances            int
	Consistent          bool
}

// CheckConsistency recomputes running balances in memory and checks advance and payment
// invariants. It never writes.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	report := &ConsistencyReport{CheckedAt: time.Now().UTC()}

	if err := uc.checkBalances(ctx, report); err != nil {
		return nil, err
	}
	if err := uc.checkAdvances(ctx, report); err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListOvercovered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overcovered payments: %w", err)
	}
	for _, p := range payments {
		report.OvercoveredPayments = append(report.OvercoveredPayments, p.ID)
	}

	report.Consistent = len(report.BalanceMismatches) == 0 &&
		len(report.AdvanceViolations) == 0 &&
		len(report.OvercoveredPayments) == 0
	return report, nil
}

func (uc *ReconciliationUseCase) checkBalances(ctx context.Context, report *ConsistencyReport) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entries, err := uc.entryRepo.ListOrdered(ctx, tx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	stored := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		stored[e.ID] = e.RunningBalance
	}

	changed, final := domain.FoldRunningBalances(entries)
	for _, e := range changed {
		report.BalanceMismatches = append(report.BalanceMismatches, BalanceMismatch{
			EntryID:  e.ID,
			Stored:   stored[e.ID],
			Expected: e.RunningBalance,
		})
	}
	report.Entries = len(entries)
	report.FinalBalance = final
	return nil
}

func (uc *ReconciliationUseCase) checkAdvances(ctx context.Context, report *ConsistencyReport) error {
	const pageSize = 1000

	for offset := 0; ; offset += pageSize {
		advances, err := uc.advanceRepo.List(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("list advances: %w", err)
		}

		for _, a := range advances {
			report.Advances++
			if reason := advanceViolation(a); reason != "" {
				report.AdvanceViolations = append(report.AdvanceViolations, AdvanceViolation{AdvanceID: a.ID, Reason: reason})
			}
		}

		if len(advances) < pageSize {
			return nil
		}
	}
}

func advanceViolation(a *domain.Advance) string {
	if err := a.Validate(); err != nil {
		return err.Error()
	}
	if !a.IsActive() && !a.RemainingBalance.IsZero() {
		return fmt.Sprintf("%s advance still holds %s", a.Status, a.RemainingBalance)
	}
	if a.IsActive() && a.RemainingBalance.IsZero() {
		return "active advance has no remaining balance"
	}
	return ""
}

// Repair rewrites every running balance from the ordered entry set.
func (uc *ReconciliationUseCase) Repair(ctx context.Context) (*RecalculationResult, error) {
	return uc.balance.Recalculate(ctx)
}
