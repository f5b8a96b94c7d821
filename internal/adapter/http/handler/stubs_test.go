package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

type entryServiceStub struct {
	fromPaymentFn func(ctx context.Context, paymentID string) (*domain.Entry, error)
	fromExpenseFn func(ctx context.Context, expenseID string) (*domain.Entry, error)
	manualFn      func(ctx context.Context, input usecase.ManualEntryInput) (*domain.Entry, error)
	getFn         func(ctx context.Context, id string) (*domain.Entry, error)
	listFn        func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
}

func (s *entryServiceStub) CreateEntryFromPayment(ctx context.Context, paymentID string) (*domain.Entry, error) {
	return s.fromPaymentFn(ctx, paymentID)
}

func (s *entryServiceStub) CreateEntryFromExpense(ctx context.Context, expenseID string) (*domain.Entry, error) {
	return s.fromExpenseFn(ctx, expenseID)
}

func (s *entryServiceStub) CreateManualEntry(ctx context.Context, input usecase.ManualEntryInput) (*domain.Entry, error) {
	return s.manualFn(ctx, input)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	return s.listFn(ctx, filter)
}

type advanceServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateAdvanceInput) (*domain.Advance, error)
	refundFn   func(ctx context.Context, id, reason string) (*domain.Advance, error)
	recordFn   func(ctx context.Context, id, reason string) (*domain.Advance, *domain.Entry, error)
	transferFn func(ctx context.Context, id, target, reason string) (*domain.Advance, error)
	getFn      func(ctx context.Context, id string) (*domain.Advance, error)
	listFn     func(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error)
	historyFn  func(ctx context.Context, id string) (*usecase.AdvanceHistory, error)
}

func (s *advanceServiceStub) CreateAdvancePayment(ctx context.Context, input usecase.CreateAdvanceInput) (*domain.Advance, error) {
	return s.createFn(ctx, input)
}

func (s *advanceServiceStub) RefundAdvancePayment(ctx context.Context, id, reason string) (*domain.Advance, error) {
	return s.refundFn(ctx, id, reason)
}

func (s *advanceServiceStub) RecordAdvanceRefund(ctx context.Context, id, reason string) (*domain.Advance, *domain.Entry, error) {
	return s.recordFn(ctx, id, reason)
}

func (s *advanceServiceStub) TransferAdvance(ctx context.Context, id, target, reason string) (*domain.Advance, error) {
	return s.transferFn(ctx, id, target, reason)
}

func (s *advanceServiceStub) GetAdvance(ctx context.Context, id string) (*domain.Advance, error) {
	return s.getFn(ctx, id)
}

func (s *advanceServiceStub) ListAdvances(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error) {
	return s.listFn(ctx, leaseID, status)
}

func (s *advanceServiceStub) GetAdvanceHistory(ctx context.Context, id string) (*usecase.AdvanceHistory, error) {
	return s.historyFn(ctx, id)
}

type allocationServiceStub struct {
	balanceFn    func(ctx context.Context, leaseID string) (decimal.Decimal, error)
	applyFn      func(ctx context.Context, paymentID string) (*usecase.AllocationResult, error)
	applyLeaseFn func(ctx context.Context, leaseID string) (*usecase.AllocationStats, error)
}

func (s *allocationServiceStub) GetAvailableBalance(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, leaseID)
}

func (s *allocationServiceStub) ApplyAdvanceToPayment(ctx context.Context, paymentID string) (*usecase.AllocationResult, error) {
	return s.applyFn(ctx, paymentID)
}

func (s *allocationServiceStub) ApplyAdvanceToAllPendingPayments(ctx context.Context, leaseID string) (*usecase.AllocationStats, error) {
	return s.applyLeaseFn(ctx, leaseID)
}

type reportServiceStub struct {
	buildFn func(ctx context.Context, start, end time.Time) (*domain.Report, error)
}

func (s *reportServiceStub) BuildReport(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	return s.buildFn(ctx, start, end)
}

type reconciliationServiceStub struct {
	checkFn  func(ctx context.Context) (*usecase.ConsistencyReport, error)
	repairFn func(ctx context.Context) (*usecase.RecalculationResult, error)
}

func (s *reconciliationServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.checkFn(ctx)
}

func (s *reconciliationServiceStub) Repair(ctx context.Context) (*usecase.RecalculationResult, error) {
	return s.repairFn(ctx)
}

type referenceServiceStub struct {
	leaseFn      func(ctx context.Context, lease domain.Lease) (*domain.Lease, error)
	paymentFn    func(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
	expenseFn    func(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	getPaymentFn func(ctx context.Context, id string) (*domain.Payment, error)
}

func (s *referenceServiceStub) RegisterLease(ctx context.Context, lease domain.Lease) (*domain.Lease, error) {
	return s.leaseFn(ctx, lease)
}

func (s *referenceServiceStub) RegisterPayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	return s.paymentFn(ctx, payment)
}

func (s *referenceServiceStub) RegisterExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	return s.expenseFn(ctx, expense)
}

func (s *referenceServiceStub) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.getPaymentFn(ctx, id)
}

// newRequest builds a request carrying chi URL params.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testEntry(id string) *domain.Entry {
	return &domain.Entry{
		ID:             id,
		Seq:            1,
		EntryDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Description:    "Rent",
		Type:           domain.EntryTypeCredit,
		Category:       domain.CategoryRent,
		Amount:         decimal.NewFromInt(500),
		RunningBalance: decimal.NewFromInt(500),
	}
}

func testAdvance(id, leaseID string) *domain.Advance {
	return &domain.Advance{
		ID:               id,
		LeaseID:          leaseID,
		Amount:           decimal.NewFromInt(300),
		RemainingBalance: decimal.NewFromInt(300),
		Status:           domain.AdvanceStatusActive,
		PaidDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
