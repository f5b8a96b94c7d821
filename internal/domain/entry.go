package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType determines the sign an entry carries into the running balance.
type EntryType string

const (
	EntryTypeCredit EntryType = "CREDIT"
	EntryTypeDebit  EntryType = "DEBIT"
)

// ParseEntryType accepts CREDIT or DEBIT in any letter case.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(strings.ToUpper(strings.TrimSpace(s))) {
	case EntryTypeCredit:
		return EntryTypeCredit, nil
	case EntryTypeDebit:
		return EntryTypeDebit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
}

// Category tags an entry for reporting.
type Category string

const (
	CategoryRent           Category = "RENT"
	CategoryCharges        Category = "CHARGES"
	CategoryDeposit        Category = "DEPOSIT"
	CategoryFee            Category = "FEE"
	CategoryPenalty        Category = "PENALTY"
	CategoryOther          Category = "OTHER"
	CategoryRepairs        Category = "REPAIRS"
	CategoryMaintenance    Category = "MAINTENANCE"
	CategoryInsurance      Category = "INSURANCE"
	CategoryTax            Category = "TAX"
	CategoryWorks          Category = "WORKS"
	CategoryAdvanceUsage   Category = "ADVANCE_USAGE"
	CategoryAdvanceDeposit Category = "ADVANCE_DEPOSIT"
	CategoryAdvanceRefund  Category = "ADVANCE_REFUND"
)

var paymentTypeCategories = map[string]Category{
	"rent":             CategoryRent,
	"charges":          CategoryCharges,
	"security deposit": CategoryDeposit,
	"fee":              CategoryFee,
	"penalty":          CategoryPenalty,
}

var expenseCategories = map[string]Category{
	"repairs":     CategoryRepairs,
	"maintenance": CategoryMaintenance,
	"insurance":   CategoryInsurance,
	"tax":         CategoryTax,
	"works":       CategoryWorks,
}

// CategoryForPaymentType maps a payment type label to its ledger category.
func CategoryForPaymentType(paymentType string) Category {
	if c, ok := paymentTypeCategories[strings.ToLower(strings.TrimSpace(paymentType))]; ok {
		return c
	}
	return CategoryOther
}

// CategoryForExpense maps an expense category label to its ledger category.
func CategoryForExpense(expenseCategory string) Category {
	if c, ok := expenseCategories[strings.ToLower(strings.TrimSpace(expenseCategory))]; ok {
		return c
	}
	return CategoryOther
}

// NormalizeCategory upper-cases a free-form category, defaulting to OTHER.
func NormalizeCategory(s string) Category {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther
	}
	return Category(strings.ReplaceAll(s, " ", "_"))
}

// Entry is one immutable bookkeeping line. Only RunningBalance is rewritten after insert.
type Entry struct {
	CreatedAt      time.Time
	EntryDate      time.Time
	ID             string
	Description    string
	Type           EntryType
	Category       Category
	Reference      string
	PaymentID      string
	ExpenseID      string
	AdvanceID      string
	PropertyID     string
	OwnerID        string
	OrganizationID string
	CompanyID      string
	Notes          string
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
	Seq            int64
}

// Validate checks the fields every entry must carry.
func (e *Entry) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if e.Type != EntryTypeCredit && e.Type != EntryTypeDebit {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, e.Type)
	}
	if e.PaymentID != "" && e.ExpenseID != "" {
		return fmt.Errorf("%w: entry cannot reference both a payment and an expense", ErrInvalidEntrySource)
	}
	return nil
}

// SignedAmount is the entry's effect on the running balance.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Type == EntryTypeDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// EntryLess orders entries by entry date, then by insertion sequence.
func EntryLess(a, b *Entry) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	return a.Seq < b.Seq
}

// SortEntries sorts entries in ledger order.
func SortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return EntryLess(entries[i], entries[j])
	})
}

// FoldRunningBalances sorts entries in ledger order and rewrites every running balance as the
// signed cumulative sum from zero. It returns the entries whose stored balance changed and the
// final balance.
func FoldRunningBalances(entries []*Entry) ([]*Entry, decimal.Decimal) {
	SortEntries(entries)

	acc := decimal.Zero
	var changed []*Entry
	for _, e := range entries {
		acc = acc.Add(e.SignedAmount())
		if !e.RunningBalance.Equal(acc) {
			e.RunningBalance = acc
			changed = append(changed, e)
		}
	}
	return changed, acc
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
