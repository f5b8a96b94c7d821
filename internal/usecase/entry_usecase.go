package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// EntryUseCase turns payments, expenses, and advance movements into ledger entries.
// Each source produces at most one entry, and every insert leaves running balances consistent.
type EntryUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	paymentRepo PaymentRepository
	expenseRepo ExpenseRepository
	leaseRepo   LeaseRepository
	locker      LeaseLocker
	balance     *BalanceUseCase
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	paymentRepo PaymentRepository,
	expenseRepo ExpenseRepository,
	leaseRepo LeaseRepository,
	locker LeaseLocker,
	balance *BalanceUseCase,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		paymentRepo: paymentRepo,
		expenseRepo: expenseRepo,
		leaseRepo:   leaseRepo,
		locker:      locker,
		balance:     balance,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// CreateEntryFromPayment books a CREDIT for a collected payment. Calling it again for the same
// payment returns the original entry. Payments that are not Paid yet give ErrPaymentNotPaid.
func (uc *EntryUseCase) CreateEntryFromPayment(ctx context.Context, paymentID string) (*domain.Entry, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentStatusPaid {
		return nil, domain.ErrPaymentNotPaid
	}
	if payment.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	entry := &domain.Entry{
		EntryDate:   payment.EntryDate(),
		Description: fmt.Sprintf("%s payment", paymentLabel(payment.Type)),
		Amount:      payment.Amount,
		Type:        domain.EntryTypeCredit,
		Category:    domain.CategoryForPaymentType(payment.Type),
		Reference:   payment.Reference,
		PaymentID:   payment.ID,
		Notes:       payment.Notes,
	}
	if err := uc.applyLeaseScope(ctx, entry, payment.LeaseID); err != nil {
		return nil, err
	}

	return uc.create(ctx, entry)
}

// CreateEntryFromExpense books a DEBIT for an expense. Calling it again for the same expense
// returns the original entry.
func (uc *EntryUseCase) CreateEntryFromExpense(ctx context.Context, expenseID string) (*domain.Entry, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	description := expense.Description
	if description == "" {
		description = fmt.Sprintf("%s expense", paymentLabel(expense.Category))
	}

	entry := &domain.Entry{
		EntryDate:      domain.DateOf(expense.Date),
		Description:    description,
		Amount:         expense.Amount,
		Type:           domain.EntryTypeDebit,
		Category:       domain.CategoryForExpense(expense.Category),
		ExpenseID:      expense.ID,
		PropertyID:     expense.PropertyID,
		OwnerID:        expense.OwnerID,
		OrganizationID: expense.OrganizationID,
		CompanyID:      expense.CompanyID,
	}

	return uc.create(ctx, entry)
}

// ManualEntryInput describes an entry typed in by a user.
type ManualEntryInput struct {
	EntryDate      time.Time
	Description    string
	Type           string
	Category       string
	Reference      string
	Notes          string
	PropertyID     string
	OwnerID        string
	OrganizationID string
	CompanyID      string
	Amount         decimal.Decimal
}

// CreateManualEntry books a free-form entry with no source link.
func (uc *EntryUseCase) CreateManualEntry(ctx context.Context, input ManualEntryInput) (*domain.Entry, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	entryType, err := domain.ParseEntryType(input.Type)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := domain.ValidateLength("reference", input.Reference, domain.MaxReferenceLength); err != nil {
		return nil, err
	}
	if err := domain.ValidateLength("notes", input.Notes, domain.MaxNotesLength); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		EntryDate:      domain.DateOf(input.EntryDate),
		Description:    strings.TrimSpace(input.Description),
		Amount:         input.Amount,
		Type:           entryType,
		Category:       domain.NormalizeCategory(input.Category),
		Reference:      input.Reference,
		Notes:          input.Notes,
		PropertyID:     input.PropertyID,
		OwnerID:        input.OwnerID,
		OrganizationID: input.OrganizationID,
		CompanyID:      input.CompanyID,
	}

	return uc.create(ctx, entry)
}

// CreateAdvanceUsageEntry books a DEBIT for advance credit consumed against a payment.
func (uc *EntryUseCase) CreateAdvanceUsageEntry(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, payment *domain.Payment) (*domain.Entry, error) {
	entry, err := uc.advanceEntry(ctx, advance, amount, domain.EntryTypeDebit, domain.CategoryAdvanceUsage)
	if err != nil {
		return nil, err
	}
	entry.EntryDate = domain.DateOf(time.Now().UTC())
	entry.Description = fmt.Sprintf("Advance applied to %s payment due %s",
		strings.ToLower(paymentLabel(payment.Type)), payment.DueDate.Format("2006-01-02"))
	entry.Reference = "payment:" + payment.ID

	return uc.create(ctx, entry)
}

// CreateAdvanceRefundEntry books a DEBIT for advance credit paid back to the tenant.
func (uc *EntryUseCase) CreateAdvanceRefundEntry(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, reason string) (*domain.Entry, error) {
	entry, err := uc.refundEntry(ctx, advance, amount, reason)
	if err != nil {
		return nil, err
	}
	return uc.create(ctx, entry)
}

// CreateAdvanceRefundEntryTx is CreateAdvanceRefundEntry inside the caller's transaction.
func (uc *EntryUseCase) CreateAdvanceRefundEntryTx(ctx context.Context, tx Transaction, advance *domain.Advance, amount decimal.Decimal, reason string) (*domain.Entry, error) {
	entry, err := uc.refundEntry(ctx, advance, amount, reason)
	if err != nil {
		return nil, err
	}
	stored, _, err := uc.createTx(ctx, tx, entry)
	return stored, err
}

// CreateAdvanceDepositEntry books a CREDIT for a newly received advance.
func (uc *EntryUseCase) CreateAdvanceDepositEntry(ctx context.Context, advance *domain.Advance) (*domain.Entry, error) {
	entry, err := uc.depositEntry(ctx, advance)
	if err != nil {
		return nil, err
	}
	return uc.create(ctx, entry)
}

// CreateAdvanceDepositEntryTx is CreateAdvanceDepositEntry inside the caller's transaction.
func (uc *EntryUseCase) CreateAdvanceDepositEntryTx(ctx context.Context, tx Transaction, advance *domain.Advance) (*domain.Entry, error) {
	entry, err := uc.depositEntry(ctx, advance)
	if err != nil {
		return nil, err
	}
	stored, _, err := uc.createTx(ctx, tx, entry)
	return stored, err
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntries lists entries in ledger order.
func (uc *EntryUseCase) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error) {
	if filter.StartDate != nil && filter.EndDate != nil {
		if err := domain.ValidateDateRange(*filter.StartDate, *filter.EndDate); err != nil {
			return nil, err
		}
	}
	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.entryRepo.List(ctx, filter)
}

func (uc *EntryUseCase) refundEntry(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, reason string) (*domain.Entry, error) {
	entry, err := uc.advanceEntry(ctx, advance, amount, domain.EntryTypeDebit, domain.CategoryAdvanceRefund)
	if err != nil {
		return nil, err
	}
	entry.EntryDate = domain.DateOf(time.Now().UTC())
	entry.Description = "Advance refund"
	entry.Notes = reason
	return entry, nil
}

func (uc *EntryUseCase) depositEntry(ctx context.Context, advance *domain.Advance) (*domain.Entry, error) {
	entry, err := uc.advanceEntry(ctx, advance, advance.Amount, domain.EntryTypeCredit, domain.CategoryAdvanceDeposit)
	if err != nil {
		return nil, err
	}
	entry.EntryDate = domain.DateOf(advance.PaidDate)
	entry.Description = "Advance deposit"
	if advance.PaymentMethod != "" {
		entry.Description += " (" + advance.PaymentMethod + ")"
	}
	entry.Reference = advance.Reference
	return entry, nil
}

func (uc *EntryUseCase) advanceEntry(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, typ domain.EntryType, category domain.Category) (*domain.Entry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	entry := &domain.Entry{
		Amount:    amount,
		Type:      typ,
		Category:  category,
		AdvanceID: advance.ID,
	}
	if err := uc.applyLeaseScope(ctx, entry, advance.LeaseID); err != nil {
		return nil, err
	}
	return entry, nil
}

// applyLeaseScope copies the lease's tenancy tags onto entry. Unknown leases leave it untagged.
func (uc *EntryUseCase) applyLeaseScope(ctx context.Context, entry *domain.Entry, leaseID string) error {
	if leaseID == "" {
		return nil
	}
	lease, err := uc.leaseRepo.GetByID(ctx, leaseID)
	if errors.Is(err, domain.ErrLeaseNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	entry.PropertyID = lease.PropertyID
	entry.OwnerID = lease.OwnerID
	entry.OrganizationID = lease.OrganizationID
	entry.CompanyID = lease.CompanyID
	return nil
}

func (uc *EntryUseCase) create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var (
		stored   *domain.Entry
		inserted bool
	)
	err := retry(ctx, uc.retrier, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		stored, inserted, err = uc.createTx(txCtx, tx, entry)
		if err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		if inserted {
			uc.metrics.EntriesCreated.WithLabelValues(string(stored.Type), string(stored.Category)).Inc()
		} else {
			uc.metrics.EntriesDeduplicated.WithLabelValues(entrySource(stored)).Inc()
		}
	}
	return stored, nil
}

// createTx inserts entry under the ledger lock and brings running balances up to date.
// An entry dated on or after the current tail gets an incremental balance. A back-dated entry
// triggers a full recompute in the same transaction.
func (uc *EntryUseCase) createTx(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, bool, error) {
	if err := entry.Validate(); err != nil {
		return nil, false, err
	}

	if err := uc.locker.LockLedger(ctx, tx); err != nil {
		return nil, false, fmt.Errorf("lock ledger: %w", err)
	}

	tail, err := uc.entryRepo.GetTail(ctx, tx)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, false, err
	}

	appendsAtTail := tail == nil || !entry.EntryDate.Before(tail.EntryDate)
	previous := decimal.Zero
	if tail != nil {
		previous = tail.RunningBalance
	}

	now := time.Now().UTC()
	entry.ID = uc.idGen.Generate()
	entry.CreatedAt = now
	entry.RunningBalance = previous.Add(entry.SignedAmount())

	stored, inserted, err := uc.entryRepo.CreateIfAbsent(ctx, tx, entry)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		return stored, false, nil
	}

	if !appendsAtTail {
		ordered, _, err := uc.balance.RecalculateTx(ctx, tx)
		if err != nil {
			return nil, false, err
		}
		for _, e := range ordered {
			if e.ID == stored.ID {
				stored.RunningBalance = e.RunningBalance
				break
			}
		}
	}

	event := newEvent(uc.idGen, domain.AggregateTypeEntry, stored.ID, domain.EventTypeEntryCreated,
		domain.EntryCreatedEvent{
			EntryID:        stored.ID,
			Type:           string(stored.Type),
			Category:       string(stored.Category),
			Amount:         stored.Amount.String(),
			RunningBalance: stored.RunningBalance.String(),
			PaymentID:      stored.PaymentID,
			ExpenseID:      stored.ExpenseID,
			AdvanceID:      stored.AdvanceID,
			EntryDate:      stored.EntryDate.Format("2006-01-02"),
		}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, false, err
	}

	if err := auditTx(ctx, tx, uc.auditRepo, uc.idGen, uc.metrics,
		domain.AuditActionEntryCreate, domain.AggregateTypeEntry, stored.ID, nil, stored); err != nil {
		return nil, false, err
	}

	return stored, true, nil
}

func entrySource(e *domain.Entry) string {
	switch {
	case e.PaymentID != "":
		return "payment"
	case e.ExpenseID != "":
		return "expense"
	}
	return "other"
}

func paymentLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Other"
	}
	return s
}
