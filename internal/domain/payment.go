package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusOverdue PaymentStatus = "Overdue"
)

// PaymentMethodAutomaticAdvance marks payments settled entirely from advance credit.
const PaymentMethodAutomaticAdvance = "Automatic advance"

// Payment is a rent charge owned by the lease module. The ledger reads it and only writes the
// settlement fields.
type Payment struct {
	DueDate        time.Time
	PaidDate       *time.Time
	ID             string
	LeaseID        string
	Type           string
	PaymentMethod  string
	Reference      string
	Notes          string
	Status         PaymentStatus
	Amount         decimal.Decimal
	AdvanceCovered decimal.Decimal
}

// IsPending reports whether the payment is still owed. Overdue counts as owed.
func (p *Payment) IsPending() bool {
	return p.Status != PaymentStatusPaid
}

// Outstanding is the part of the amount not yet covered by advances.
func (p *Payment) Outstanding() decimal.Decimal {
	out := p.Amount.Sub(p.AdvanceCovered)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// RecordAdvanceUse notes an allocation from an advance against this payment.
func (p *Payment) RecordAdvanceUse(advanceID string, amount decimal.Decimal, at time.Time) {
	p.AdvanceCovered = p.AdvanceCovered.Add(amount)
	p.AppendNote(fmt.Sprintf("Advance %s applied: %s on %s", advanceID, amount.StringFixed(2), at.UTC().Format("2006-01-02")))
}

// MarkPaidByAdvance settles the payment from advance credit with a synthetic reference.
func (p *Payment) MarkPaidByAdvance(at time.Time) {
	paid := at
	p.Status = PaymentStatusPaid
	p.PaidDate = &paid
	p.PaymentMethod = PaymentMethodAutomaticAdvance
	p.Reference = "AUTO-" + at.UTC().Format("20060102150405")
}

// EntryDate is the date the payment is booked on: paid date when known, due date otherwise.
func (p *Payment) EntryDate() time.Time {
	if p.PaidDate != nil {
		return DateOf(*p.PaidDate)
	}
	return DateOf(p.DueDate)
}

func (p *Payment) AppendNote(note string) {
	p.Notes = appendLine(p.Notes, note)
}

// SortPaymentsByDueDate orders payments by due date, then by id.
func SortPaymentsByDueDate(payments []*Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		if !payments[i].DueDate.Equal(payments[j].DueDate) {
			return payments[i].DueDate.Before(payments[j].DueDate)
		}
		return payments[i].ID < payments[j].ID
	})
}

// Expense is a property cost recorded outside the ledger.
type Expense struct {
	Date           time.Time
	ID             string
	Category       string
	Description    string
	PropertyID     string
	OwnerID        string
	OrganizationID string
	CompanyID      string
	Amount         decimal.Decimal
}

// Lease carries the scope tags copied onto entries generated for its payments.
type Lease struct {
	ID             string
	Reference      string
	PropertyID     string
	OwnerID        string
	OrganizationID string
	CompanyID      string
}
