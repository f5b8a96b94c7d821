package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPayment_Outstanding(t *testing.T) {
	p := &Payment{Amount: decimal.NewFromInt(500), Status: PaymentStatusPending}
	if !p.Outstanding().Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500, got %s", p.Outstanding())
	}

	now := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
	p.RecordAdvanceUse("adv-1", decimal.NewFromInt(200), now)
	if !p.Outstanding().Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected 300, got %s", p.Outstanding())
	}
	if !strings.Contains(p.Notes, "adv-1") || !strings.Contains(p.Notes, "200.00") {
		t.Fatalf("note missing allocation detail: %q", p.Notes)
	}

	p.AdvanceCovered = decimal.NewFromInt(600)
	if !p.Outstanding().IsZero() {
		t.Fatalf("outstanding must not go negative, got %s", p.Outstanding())
	}
}

func TestPayment_MarkPaidByAdvance(t *testing.T) {
	now := time.Date(2025, 2, 1, 9, 30, 5, 0, time.UTC)
	p := &Payment{Amount: decimal.NewFromInt(500), Status: PaymentStatusOverdue}
	if !p.IsPending() {
		t.Fatal("overdue payment should count as pending")
	}

	p.MarkPaidByAdvance(now)

	if p.Status != PaymentStatusPaid || p.IsPending() {
		t.Fatalf("expected Paid, got %s", p.Status)
	}
	if p.PaymentMethod != PaymentMethodAutomaticAdvance {
		t.Fatalf("unexpected method %q", p.PaymentMethod)
	}
	if p.Reference != "AUTO-20250201093005" {
		t.Fatalf("unexpected reference %q", p.Reference)
	}
	if p.PaidDate == nil || !p.PaidDate.Equal(now) {
		t.Fatalf("unexpected paid date %v", p.PaidDate)
	}
}

func TestPayment_EntryDate(t *testing.T) {
	due := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	p := &Payment{DueDate: due}
	if !p.EntryDate().Equal(due) {
		t.Fatalf("expected due date fallback, got %v", p.EntryDate())
	}

	paid := time.Date(2025, 2, 3, 17, 45, 0, 0, time.UTC)
	p.PaidDate = &paid
	if !p.EntryDate().Equal(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected truncated paid date, got %v", p.EntryDate())
	}
}

func TestSortPaymentsByDueDate(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	payments := []*Payment{
		{ID: "3", DueDate: jan.AddDate(0, 2, 0)},
		{ID: "2", DueDate: jan},
		{ID: "1", DueDate: jan},
	}
	SortPaymentsByDueDate(payments)
	if payments[0].ID != "1" || payments[1].ID != "2" || payments[2].ID != "3" {
		t.Fatalf("unexpected order %s %s %s", payments[0].ID, payments[1].ID, payments[2].ID)
	}
}
