package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		entry       Entry
		expectError error
	}{
		{
			name:  "valid credit",
			entry: Entry{Amount: decimal.NewFromInt(100), Type: EntryTypeCredit},
		},
		{
			name:        "zero amount",
			entry:       Entry{Amount: decimal.Zero, Type: EntryTypeCredit},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			entry:       Entry{Amount: decimal.NewFromInt(-5), Type: EntryTypeDebit},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "unknown type",
			entry:       Entry{Amount: decimal.NewFromInt(5), Type: "SIDEWAYS"},
			expectError: ErrInvalidEntryType,
		},
		{
			name:        "two sources",
			entry:       Entry{Amount: decimal.NewFromInt(5), Type: EntryTypeDebit, PaymentID: "p", ExpenseID: "e"},
			expectError: ErrInvalidEntrySource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.expectError == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestParseEntryType(t *testing.T) {
	t.Parallel()

	if got, err := ParseEntryType(" credit "); err != nil || got != EntryTypeCredit {
		t.Fatalf("expected CREDIT, got %q (%v)", got, err)
	}
	if got, err := ParseEntryType("Debit"); err != nil || got != EntryTypeDebit {
		t.Fatalf("expected DEBIT, got %q (%v)", got, err)
	}
	if _, err := ParseEntryType("refund"); !errors.Is(err, ErrInvalidEntryType) {
		t.Fatalf("expected ErrInvalidEntryType, got %v", err)
	}
}

func TestCategoryLookups(t *testing.T) {
	t.Parallel()

	payments := map[string]Category{
		"Rent":             CategoryRent,
		"charges":          CategoryCharges,
		"Security Deposit": CategoryDeposit,
		"FEE":              CategoryFee,
		"Penalty":          CategoryPenalty,
		"Parking":          CategoryOther,
		"":                 CategoryOther,
	}
	for in, want := range payments {
		if got := CategoryForPaymentType(in); got != want {
			t.Errorf("CategoryForPaymentType(%q) = %s, want %s", in, got, want)
		}
	}

	expenses := map[string]Category{
		"Repairs":     CategoryRepairs,
		"maintenance": CategoryMaintenance,
		"Insurance":   CategoryInsurance,
		"Tax":         CategoryTax,
		"works":       CategoryWorks,
		"Gardening":   CategoryOther,
	}
	for in, want := range expenses {
		if got := CategoryForExpense(in); got != want {
			t.Errorf("CategoryForExpense(%q) = %s, want %s", in, got, want)
		}
	}

	if got := NormalizeCategory("utility bill"); got != "UTILITY_BILL" {
		t.Errorf("NormalizeCategory = %s", got)
	}
	if got := NormalizeCategory("  "); got != CategoryOther {
		t.Errorf("NormalizeCategory(blank) = %s", got)
	}
}

func TestFoldRunningBalances_OrdersByDateThenSeq(t *testing.T) {
	t.Parallel()

	entries := []*Entry{
		{ID: "c", Seq: 3, EntryDate: day("2025-01-10"), Type: EntryTypeDebit, Amount: decimal.NewFromInt(40)},
		{ID: "a", Seq: 1, EntryDate: day("2025-01-05"), Type: EntryTypeCredit, Amount: decimal.NewFromInt(100)},
		{ID: "d", Seq: 4, EntryDate: day("2025-01-05"), Type: EntryTypeCredit, Amount: decimal.NewFromInt(10)},
		{ID: "b", Seq: 2, EntryDate: day("2025-01-20"), Type: EntryTypeCredit, Amount: decimal.NewFromInt(5)},
	}

	changed, final := FoldRunningBalances(entries)

	wantOrder := []string{"a", "d", "c", "b"}
	wantBalance := []int64{100, 110, 70, 75}
	for i, e := range entries {
		if e.ID != wantOrder[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantOrder[i], e.ID)
		}
		if !e.RunningBalance.Equal(decimal.NewFromInt(wantBalance[i])) {
			t.Fatalf("entry %s: expected balance %d, got %s", e.ID, wantBalance[i], e.RunningBalance)
		}
	}
	if len(changed) != 4 {
		t.Fatalf("expected 4 changed entries, got %d", len(changed))
	}
	if !final.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected final balance 75, got %s", final)
	}

	changed, _ = FoldRunningBalances(entries)
	if len(changed) != 0 {
		t.Fatalf("second fold should be a no-op, got %d changes", len(changed))
	}
}

func TestFoldRunningBalances_RandomizedCumulativeSum(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(42)
	start := day("2024-01-01")
	end := day("2024-12-31")

	for round := 0; round < 20; round++ {
		n := faker.IntRange(1, 60)
		entries := make([]*Entry, n)
		for i := range entries {
			typ := EntryTypeCredit
			if faker.Bool() {
				typ = EntryTypeDebit
			}
			entries[i] = &Entry{
				ID:        faker.UUID(),
				Seq:       int64(i + 1),
				EntryDate: DateOf(faker.DateRange(start, end)),
				Type:      typ,
				Amount:    decimal.New(int64(faker.IntRange(1, 1_000_000)), -2),
			}
		}

		_, final := FoldRunningBalances(entries)

		acc := decimal.Zero
		for i, e := range entries {
			if i > 0 && EntryLess(e, entries[i-1]) {
				t.Fatalf("round %d: entries out of order at %d", round, i)
			}
			acc = acc.Add(e.SignedAmount())
			if !e.RunningBalance.Equal(acc) {
				t.Fatalf("round %d: entry %d balance %s, expected %s", round, i, e.RunningBalance, acc)
			}
		}
		if !final.Equal(acc) {
			t.Fatalf("round %d: final %s, expected %s", round, final, acc)
		}
	}
}

func TestFoldRunningBalances_Empty(t *testing.T) {
	changed, final := FoldRunningBalances(nil)
	if len(changed) != 0 || !final.IsZero() {
		t.Fatalf("expected empty fold, got %d changes and %s", len(changed), final)
	}
}
