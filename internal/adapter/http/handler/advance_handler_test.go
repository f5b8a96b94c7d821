package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

func TestAdvanceHandler_Create(t *testing.T) {
	var captured usecase.CreateAdvanceInput
	h := NewAdvanceHandler(&advanceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAdvanceInput) (*domain.Advance, error) {
			captured = input
			return testAdvance("adv-1", input.LeaseID), nil
		},
	}, &allocationServiceStub{})

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/leases/lease-1/advances",
		`{"amount":"300","payment_method":"Bank transfer"}`, map[string]string{"leaseID": "lease-1"}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "lease-1", captured.LeaseID)
	assert.True(t, captured.Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "Bank transfer", captured.PaymentMethod)
}

func TestAdvanceHandler_CreateDisabledConflicts(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAdvanceInput) (*domain.Advance, error) {
			return nil, domain.ErrAdvanceDisabled
		},
	}, &allocationServiceStub{})

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/", `{"amount":"10"}`, map[string]string{"leaseID": "lease-1"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdvanceHandler_Balance(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{}, &allocationServiceStub{
		balanceFn: func(ctx context.Context, leaseID string) (decimal.Decimal, error) {
			return decimal.RequireFromString("150.5"), nil
		},
	})

	rec := httptest.NewRecorder()
	h.Balance(rec, newRequest(http.MethodGet, "/", "", map[string]string{"leaseID": "lease-1"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"lease_id":"lease-1","available":"150.5"}`, rec.Body.String())
}

func TestAdvanceHandler_RefundChoosesEntryVariant(t *testing.T) {
	var plain, recorded int
	stub := &advanceServiceStub{
		refundFn: func(ctx context.Context, id, reason string) (*domain.Advance, error) {
			plain++
			a := testAdvance(id, "lease-1")
			a.Status = domain.AdvanceStatusRefunded
			a.RemainingBalance = decimal.Zero
			return a, nil
		},
		recordFn: func(ctx context.Context, id, reason string) (*domain.Advance, *domain.Entry, error) {
			recorded++
			a := testAdvance(id, "lease-1")
			a.Status = domain.AdvanceStatusRefunded
			e := testEntry("ent-r")
			e.Category = domain.CategoryAdvanceRefund
			e.Type = domain.EntryTypeDebit
			return a, e, nil
		},
	}
	h := NewAdvanceHandler(stub, &allocationServiceStub{})
	params := map[string]string{"advanceID": "adv-1"}

	rec := httptest.NewRecorder()
	h.Refund(rec, newRequest(http.MethodPost, "/", "", params))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var withoutEntry dto.RefundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withoutEntry))
	assert.Nil(t, withoutEntry.Entry)
	assert.Equal(t, "REFUNDED", withoutEntry.Advance.Status)

	rec = httptest.NewRecorder()
	h.Refund(rec, newRequest(http.MethodPost, "/", `{"reason":"moved out","record_entry":true}`, params))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var withEntry dto.RefundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withEntry))
	require.NotNil(t, withEntry.Entry)
	assert.Equal(t, "ADVANCE_REFUND", withEntry.Entry.Category)

	assert.Equal(t, 1, plain)
	assert.Equal(t, 1, recorded)
}

func TestAdvanceHandler_RefundInactiveConflicts(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{
		refundFn: func(ctx context.Context, id, reason string) (*domain.Advance, error) {
			return nil, domain.ErrAdvanceNotActive
		},
	}, &allocationServiceStub{})

	rec := httptest.NewRecorder()
	h.Refund(rec, newRequest(http.MethodPost, "/", "", map[string]string{"advanceID": "adv-1"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdvanceHandler_Transfer(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{
		transferFn: func(ctx context.Context, id, target, reason string) (*domain.Advance, error) {
			if target == "lease-1" {
				return nil, domain.ErrSameLease
			}
			a := testAdvance("adv-2", target)
			a.TransferredFromID = id
			return a, nil
		},
	}, &allocationServiceStub{})
	params := map[string]string{"advanceID": "adv-1"}

	rec := httptest.NewRecorder()
	h.Transfer(rec, newRequest(http.MethodPost, "/", `{"target_lease_id":"lease-2"}`, params))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.AdvanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lease-2", resp.LeaseID)
	assert.Equal(t, "adv-1", resp.TransferredFromID)

	rec = httptest.NewRecorder()
	h.Transfer(rec, newRequest(http.MethodPost, "/", `{"target_lease_id":"lease-1"}`, params))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Transfer(rec, newRequest(http.MethodPost, "/", `{}`, params))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceHandler_ApplyToPayment(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{}, &allocationServiceStub{
		applyFn: func(ctx context.Context, paymentID string) (*usecase.AllocationResult, error) {
			return &usecase.AllocationResult{
				PaymentID:  paymentID,
				AmountUsed: decimal.NewFromInt(120),
				Remaining:  decimal.Zero,
				FullyPaid:  true,
				Allocations: []usecase.Allocation{
					{AdvanceID: "adv-1", Amount: decimal.NewFromInt(100), RemainingBalance: decimal.Zero},
					{AdvanceID: "adv-2", Amount: decimal.NewFromInt(20), RemainingBalance: decimal.NewFromInt(30)},
				},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.ApplyToPayment(rec, newRequest(http.MethodPost, "/", "", map[string]string{"paymentID": "pay-1"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AllocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.FullyPaid)
	assert.Len(t, resp.Allocations, 2)
	assert.Equal(t, "adv-1", resp.Allocations[0].AdvanceID)
}

func TestAdvanceHandler_ApplyToLease(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{}, &allocationServiceStub{
		applyLeaseFn: func(ctx context.Context, leaseID string) (*usecase.AllocationStats, error) {
			return &usecase.AllocationStats{LeaseID: leaseID, Processed: 2, FullyPaid: 1, TotalUsed: decimal.NewFromInt(700)}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.ApplyToLease(rec, newRequest(http.MethodPost, "/", "", map[string]string{"leaseID": "lease-1"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"lease_id":"lease-1","processed":2,"fully_paid":1,"total_used":"700"}`, rec.Body.String())
}

func TestAdvanceHandler_ListByLeaseUppercasesStatus(t *testing.T) {
	var gotStatus domain.AdvanceStatus
	h := NewAdvanceHandler(&advanceServiceStub{
		listFn: func(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error) {
			gotStatus = status
			return []*domain.Advance{testAdvance("adv-1", leaseID)}, nil
		},
	}, &allocationServiceStub{})

	rec := httptest.NewRecorder()
	h.ListByLease(rec, newRequest(http.MethodGet, "/x?status=active", "", map[string]string{"leaseID": "lease-1"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.AdvanceStatusActive, gotStatus)
}

func TestAdvanceHandler_History(t *testing.T) {
	h := NewAdvanceHandler(&advanceServiceStub{
		historyFn: func(ctx context.Context, id string) (*usecase.AdvanceHistory, error) {
			if id != "adv-1" {
				return nil, domain.ErrAdvanceNotFound
			}
			return &usecase.AdvanceHistory{
				Advance: testAdvance(id, "lease-1"),
				Audit:   []*domain.AuditLog{{ID: "log-1", Action: string(domain.AuditActionAdvanceCreate), Actor: "ops"}},
				Events:  []*domain.OutboxEvent{{ID: "evt-1", EventType: domain.EventTypeAdvanceCreated}},
			}, nil
		},
	}, &allocationServiceStub{})

	rec := httptest.NewRecorder()
	h.History(rec, newRequest(http.MethodGet, "/", "", map[string]string{"advanceID": "adv-1"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.AdvanceHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "adv-1", resp.Advance.ID)
	require.Len(t, resp.Audit, 1)
	assert.Equal(t, "advance.create", resp.Audit[0].Action)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventTypeAdvanceCreated, resp.Events[0].EventType)

	rec = httptest.NewRecorder()
	h.History(rec, newRequest(http.MethodGet, "/", "", map[string]string{"advanceID": "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
