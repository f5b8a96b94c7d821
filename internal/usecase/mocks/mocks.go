package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// MockEntryRepository is an in-memory EntryRepository. Entries are unique per payment and per
// expense, and Seq is assigned on insert.
type MockEntryRepository struct {
	mu       sync.RWMutex
	entries  map[string]*domain.Entry
	seq      int64
	revision int64

	CreateIfAbsentFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, bool, error)
	GetTailFunc               func(ctx context.Context, tx usecase.Transaction) (*domain.Entry, error)
	ListOrderedFunc           func(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error)
	ListByDateRangeFunc       func(ctx context.Context, start, end time.Time) ([]*domain.Entry, error)
	UpdateRunningBalancesFunc func(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error
	RevisionFunc              func(ctx context.Context) (int64, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

// Seed stores entries as-is, assigning Seq when missing.
func (m *MockEntryRepository) Seed(entries ...*domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if e.Seq == 0 {
			m.seq++
			e.Seq = m.seq
		} else if e.Seq > m.seq {
			m.seq = e.Seq
		}
		cp := *e
		m.entries[e.ID] = &cp
	}
	m.revision++
}

func (m *MockEntryRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if (entry.PaymentID != "" && e.PaymentID == entry.PaymentID) ||
			(entry.ExpenseID != "" && e.ExpenseID == entry.ExpenseID) {
			cp := *e
			return &cp, false, nil
		}
	}
	m.seq++
	m.revision++
	stored := *entry
	stored.Seq = m.seq
	m.entries[stored.ID] = &stored
	cp := stored
	return &cp, true, nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetTail(ctx context.Context, tx usecase.Transaction) (*domain.Entry, error) {
	if m.GetTailFunc != nil {
		return m.GetTailFunc(ctx, tx)
	}
	all := m.All()
	if len(all) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return all[len(all)-1], nil
}

func (m *MockEntryRepository) ListOrdered(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error) {
	if m.ListOrderedFunc != nil {
		return m.ListOrderedFunc(ctx, tx)
	}
	return m.All(), nil
}

func (m *MockEntryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Entry, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, start, end)
	}
	var out []*domain.Entry
	for _, e := range m.All() {
		if !e.EntryDate.Before(start) && !e.EntryDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range m.All() {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		out = append(out, e)
	}
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockEntryRepository) UpdateRunningBalances(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	if m.UpdateRunningBalancesFunc != nil {
		return m.UpdateRunningBalancesFunc(ctx, tx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if stored, ok := m.entries[e.ID]; ok {
			stored.RunningBalance = e.RunningBalance
		}
	}
	m.revision++
	return nil
}

func (m *MockEntryRepository) Revision(ctx context.Context) (int64, error) {
	if m.RevisionFunc != nil {
		return m.RevisionFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision, nil
}

// All returns copies of every entry in ledger order.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	domain.SortEntries(out)
	return out
}

// MockAdvanceRepository is an in-memory AdvanceRepository.
type MockAdvanceRepository struct {
	mu       sync.RWMutex
	advances map[string]*domain.Advance

	CreateFunc                     func(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error
	ListActiveByLeaseForUpdateFunc func(ctx context.Context, tx usecase.Transaction, leaseID string) ([]*domain.Advance, error)
	UpdateFunc                     func(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error
	SumActiveByLeaseFunc           func(ctx context.Context, leaseID string) (decimal.Decimal, error)
}

func NewMockAdvanceRepository() *MockAdvanceRepository {
	return &MockAdvanceRepository{
		advances: make(map[string]*domain.Advance),
	}
}

// Seed stores copies of advances.
func (m *MockAdvanceRepository) Seed(advances ...*domain.Advance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range advances {
		cp := *a
		m.advances[a.ID] = &cp
	}
}

func (m *MockAdvanceRepository) Create(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, advance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.advances[advance.ID]; ok {
		return fmt.Errorf("advance %s already exists", advance.ID)
	}
	cp := *advance
	m.advances[advance.ID] = &cp
	return nil
}

func (m *MockAdvanceRepository) GetByID(ctx context.Context, id string) (*domain.Advance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.advances[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrAdvanceNotFound
}

func (m *MockAdvanceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Advance, error) {
	return m.GetByID(ctx, id)
}

func (m *MockAdvanceRepository) ListActiveByLeaseForUpdate(ctx context.Context, tx usecase.Transaction, leaseID string) ([]*domain.Advance, error) {
	if m.ListActiveByLeaseForUpdateFunc != nil {
		return m.ListActiveByLeaseForUpdateFunc(ctx, tx, leaseID)
	}
	return m.ListByLease(ctx, leaseID, domain.AdvanceStatusActive)
}

func (m *MockAdvanceRepository) ListByLease(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Advance
	for _, a := range m.advances {
		if a.LeaseID != leaseID || (status != "" && a.Status != status) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	domain.SortAdvancesFIFO(out)
	return out, nil
}

func (m *MockAdvanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.Advance, error) {
	m.mu.RLock()
	out := make([]*domain.Advance, 0, len(m.advances))
	for _, a := range m.advances {
		cp := *a
		out = append(out, &cp)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockAdvanceRepository) SumActiveByLease(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	if m.SumActiveByLeaseFunc != nil {
		return m.SumActiveByLeaseFunc(ctx, leaseID)
	}
	active, _ := m.ListByLease(ctx, leaseID, domain.AdvanceStatusActive)
	return domain.AvailableBalance(active), nil
}

func (m *MockAdvanceRepository) ListLeaseIDsWithActive(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var ids []string
	for _, a := range m.advances {
		if a.IsActive() && !seen[a.LeaseID] {
			seen[a.LeaseID] = true
			ids = append(ids, a.LeaseID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockAdvanceRepository) Update(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, advance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.advances[advance.ID]; !ok {
		return domain.ErrAdvanceNotFound
	}
	cp := *advance
	m.advances[advance.ID] = &cp
	return nil
}

// MockPaymentRepository is an in-memory PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	UpdateSettlementFunc func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// Seed stores copies of payments.
func (m *MockPaymentRepository) Seed(payments ...*domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range payments {
		cp := *p
		m.payments[p.ID] = &cp
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; ok {
		return fmt.Errorf("payment %s already exists", payment.ID)
	}
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	return m.GetByID(ctx, id)
}

func (m *MockPaymentRepository) ListPendingByLease(ctx context.Context, leaseID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payment
	for _, p := range m.payments {
		if p.LeaseID == leaseID && p.IsPending() {
			cp := *p
			out = append(out, &cp)
		}
	}
	domain.SortPaymentsByDueDate(out)
	return out, nil
}

func (m *MockPaymentRepository) ListOvercovered(ctx context.Context) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payment
	for _, p := range m.payments {
		if p.AdvanceCovered.GreaterThan(p.Amount) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentRepository) UpdateSettlement(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.UpdateSettlementFunc != nil {
		return m.UpdateSettlementFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

// MockExpenseRepository is an in-memory ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense
}

func NewMockExpenseRepository(expenses ...*domain.Expense) *MockExpenseRepository {
	m := &MockExpenseRepository{expenses: make(map[string]*domain.Expense)}
	for _, e := range expenses {
		m.expenses[e.ID] = e
	}
	return m
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[expense.ID]; ok {
		return fmt.Errorf("expense %s already exists", expense.ID)
	}
	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// MockLeaseRepository is an in-memory LeaseRepository.
type MockLeaseRepository struct {
	mu     sync.RWMutex
	leases map[string]*domain.Lease
}

func NewMockLeaseRepository(leases ...*domain.Lease) *MockLeaseRepository {
	m := &MockLeaseRepository{leases: make(map[string]*domain.Lease)}
	for _, l := range leases {
		m.leases[l.ID] = l
	}
	return m
}

func (m *MockLeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leases[lease.ID]; ok {
		return fmt.Errorf("lease %s already exists", lease.ID)
	}
	cp := *lease
	m.leases[lease.ID] = &cp
	return nil
}

func (m *MockLeaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.leases[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrLeaseNotFound
}

// MockOutboxRepository records created events.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return errors.New("event not found")
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// EventTypes lists recorded event types in creation order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.EventType
	}
	return types
}

// MockAuditRepository records audit logs.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditLog(nil), m.Logs...), nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditLog
	for _, l := range m.Logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// NoopLocker grants every lock immediately.
type NoopLocker struct{}

func (NoopLocker) LockLeases(ctx context.Context, tx usecase.Transaction, leaseIDs ...string) error {
	return nil
}

func (NoopLocker) LockLedger(ctx context.Context, tx usecase.Transaction) error {
	return nil
}

// MockAdvanceEntryWriter is a func-field AdvanceEntryWriter.
type MockAdvanceEntryWriter struct {
	mu         sync.Mutex
	UsageCalls int

	CreateAdvanceUsageEntryFunc     func(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, payment *domain.Payment) (*domain.Entry, error)
	CreateAdvanceDepositEntryTxFunc func(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) (*domain.Entry, error)
	CreateAdvanceRefundEntryTxFunc  func(ctx context.Context, tx usecase.Transaction, advance *domain.Advance, amount decimal.Decimal, reason string) (*domain.Entry, error)
}

func (m *MockAdvanceEntryWriter) CreateAdvanceUsageEntry(ctx context.Context, advance *domain.Advance, amount decimal.Decimal, payment *domain.Payment) (*domain.Entry, error) {
	m.mu.Lock()
	m.UsageCalls++
	m.mu.Unlock()
	if m.CreateAdvanceUsageEntryFunc != nil {
		return m.CreateAdvanceUsageEntryFunc(ctx, advance, amount, payment)
	}
	return &domain.Entry{AdvanceID: advance.ID, Amount: amount, Type: domain.EntryTypeDebit, Category: domain.CategoryAdvanceUsage}, nil
}

func (m *MockAdvanceEntryWriter) CreateAdvanceDepositEntryTx(ctx context.Context, tx usecase.Transaction, advance *domain.Advance) (*domain.Entry, error) {
	if m.CreateAdvanceDepositEntryTxFunc != nil {
		return m.CreateAdvanceDepositEntryTxFunc(ctx, tx, advance)
	}
	return &domain.Entry{AdvanceID: advance.ID, Amount: advance.Amount, Type: domain.EntryTypeCredit, Category: domain.CategoryAdvanceDeposit}, nil
}

func (m *MockAdvanceEntryWriter) CreateAdvanceRefundEntryTx(ctx context.Context, tx usecase.Transaction, advance *domain.Advance, amount decimal.Decimal, reason string) (*domain.Entry, error) {
	if m.CreateAdvanceRefundEntryTxFunc != nil {
		return m.CreateAdvanceRefundEntryTxFunc(ctx, tx, advance, amount, reason)
	}
	return &domain.Entry{AdvanceID: advance.ID, Amount: amount, Type: domain.EntryTypeDebit, Category: domain.CategoryAdvanceRefund, Notes: reason}, nil
}

// MockAdvanceApplier is a func-field AdvanceApplier.
type MockAdvanceApplier struct {
	mu     sync.Mutex
	Leases []string

	ApplyFunc func(ctx context.Context, leaseID string) (*usecase.AllocationStats, error)
}

func (m *MockAdvanceApplier) ApplyAdvanceToAllPendingPayments(ctx context.Context, leaseID string) (*usecase.AllocationStats, error) {
	m.mu.Lock()
	m.Leases = append(m.Leases, leaseID)
	m.mu.Unlock()
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, leaseID)
	}
	return &usecase.AllocationStats{LeaseID: leaseID, TotalUsed: decimal.Zero}, nil
}
