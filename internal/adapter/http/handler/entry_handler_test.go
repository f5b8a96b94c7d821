package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

func TestEntryHandler_FromPayment(t *testing.T) {
	var gotID string
	h := NewEntryHandler(&entryServiceStub{
		fromPaymentFn: func(ctx context.Context, paymentID string) (*domain.Entry, error) {
			gotID = paymentID
			e := testEntry("ent-1")
			e.PaymentID = paymentID
			return e, nil
		},
	})

	rec := httptest.NewRecorder()
	h.FromPayment(rec, newRequest(http.MethodPost, "/api/v1/entries/from-payment/pay-1", "", map[string]string{"paymentID": "pay-1"}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "pay-1" {
		t.Fatalf("expected payment id to be passed, got %q", gotID)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PaymentID != "pay-1" || resp.EntryDate != "2024-01-10" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestEntryHandler_FromPaymentNotFound(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		fromPaymentFn: func(ctx context.Context, paymentID string) (*domain.Entry, error) {
			return nil, domain.ErrPaymentNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.FromPayment(rec, newRequest(http.MethodPost, "/", "", map[string]string{"paymentID": "missing"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_CreateManual(t *testing.T) {
	var captured usecase.ManualEntryInput
	h := NewEntryHandler(&entryServiceStub{
		manualFn: func(ctx context.Context, input usecase.ManualEntryInput) (*domain.Entry, error) {
			captured = input
			return testEntry("ent-2"), nil
		},
	})

	body := `{"entry_date":"2024-01-10","description":"Cash rent","type":"credit","category":"rent","amount":"500"}`
	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/entries", body, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.Amount.Equal(decimal.NewFromInt(500)) || captured.Description != "Cash rent" {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestEntryHandler_CreateRejectsInvalidBody(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		manualFn: func(ctx context.Context, input usecase.ManualEntryInput) (*domain.Entry, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/entries", `{"amount":"0"}`, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_ListParsesFilters(t *testing.T) {
	var captured usecase.EntryFilter
	h := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
			captured = filter
			return []*domain.Entry{testEntry("ent-1")}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet,
		"/api/v1/entries?start=2024-01-01&end=2024-01-31&type=debit&category=advance%20usage&property_id=prop-1&limit=5", "", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.StartDate == nil || captured.EndDate == nil || captured.EndDate.Day() != 31 {
		t.Fatalf("expected date range, got %+v", captured)
	}
	if captured.Type != domain.EntryTypeDebit || captured.Category != domain.CategoryAdvanceUsage {
		t.Fatalf("unexpected type/category %s/%s", captured.Type, captured.Category)
	}
	if captured.PropertyID != "prop-1" || captured.Limit != 5 {
		t.Fatalf("unexpected filter %+v", captured)
	}
}

func TestEntryHandler_ListRejectsBadType(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/entries?type=sideways", "", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
