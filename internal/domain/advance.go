package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type AdvanceStatus string

const (
	AdvanceStatusActive      AdvanceStatus = "ACTIVE"
	AdvanceStatusUsed        AdvanceStatus = "USED"
	AdvanceStatusRefunded    AdvanceStatus = "REFUNDED"
	AdvanceStatusTransferred AdvanceStatus = "TRANSFERRED"
)

// PaymentMethodTransfer tags advances created by moving credit between leases.
const PaymentMethodTransfer = "Transfer"

// Advance is a tenant's prepaid credit attached to one lease.
// RemainingBalance stays within [0, Amount] and only decreases while ACTIVE.
type Advance struct {
	PaidDate          time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ID                string
	LeaseID           string
	PaymentMethod     string
	Reference         string
	Notes             string
	TransferredFromID string
	TransferredToID   string
	Status            AdvanceStatus
	Amount            decimal.Decimal
	RemainingBalance  decimal.Decimal
}

// Validate checks the balance bounds and status.
func (a *Advance) Validate() error {
	if a.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if a.RemainingBalance.IsNegative() || a.RemainingBalance.GreaterThan(a.Amount) {
		return fmt.Errorf("%w: remaining balance %s outside [0, %s]", ErrInvalidAmount, a.RemainingBalance, a.Amount)
	}
	switch a.Status {
	case AdvanceStatusActive, AdvanceStatusUsed, AdvanceStatusRefunded, AdvanceStatusTransferred:
		return nil
	}
	return fmt.Errorf("unknown advance status %q", a.Status)
}

func (a *Advance) IsActive() bool {
	return a.Status == AdvanceStatusActive
}

// Consume takes up to want from the remaining balance and returns the amount taken.
// An advance drained to zero becomes USED.
func (a *Advance) Consume(want decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if !a.IsActive() {
		return decimal.Zero, ErrAdvanceNotActive
	}
	if want.LessThanOrEqual(decimal.Zero) || a.RemainingBalance.IsZero() {
		return decimal.Zero, nil
	}

	take := decimal.Min(a.RemainingBalance, want)
	a.RemainingBalance = a.RemainingBalance.Sub(take)
	if a.RemainingBalance.IsZero() {
		a.Status = AdvanceStatusUsed
	}
	a.UpdatedAt = at
	return take, nil
}

// Refund zeroes the balance whatever was left and returns the amount that was still available.
func (a *Advance) Refund(reason string, at time.Time) (decimal.Decimal, error) {
	if !a.IsActive() {
		return decimal.Zero, ErrAdvanceNotActive
	}

	refunded := a.RemainingBalance
	a.RemainingBalance = decimal.Zero
	a.Status = AdvanceStatusRefunded
	a.UpdatedAt = at

	note := fmt.Sprintf("Refunded %s on %s", refunded.StringFixed(2), at.UTC().Format(time.RFC3339))
	if reason != "" {
		note += ": " + reason
	}
	a.AppendNote(note)
	return refunded, nil
}

// TransferTo moves the unused balance into a new ACTIVE advance owned by targetLeaseID.
// The source is zeroed and marked TRANSFERRED.
func (a *Advance) TransferTo(newID, targetLeaseID, reason string, at time.Time) (*Advance, error) {
	if !a.IsActive() {
		return nil, ErrAdvanceNotActive
	}
	if targetLeaseID == a.LeaseID {
		return nil, ErrSameLease
	}
	if a.RemainingBalance.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNothingToTransfer
	}

	moved := a.RemainingBalance
	target := &Advance{
		ID:                newID,
		LeaseID:           targetLeaseID,
		Amount:            moved,
		RemainingBalance:  moved,
		Status:            AdvanceStatusActive,
		PaymentMethod:     PaymentMethodTransfer,
		Reference:         a.Reference,
		PaidDate:          at,
		TransferredFromID: a.ID,
		CreatedAt:         at,
		UpdatedAt:         at,
	}
	target.AppendNote(withReason(fmt.Sprintf("Transferred from advance %s (lease %s)", a.ID, a.LeaseID), reason))

	a.RemainingBalance = decimal.Zero
	a.Status = AdvanceStatusTransferred
	a.TransferredToID = newID
	a.UpdatedAt = at
	a.AppendNote(withReason(fmt.Sprintf("Transferred %s to lease %s on %s",
		moved.StringFixed(2), targetLeaseID, at.UTC().Format(time.RFC3339)), reason))

	return target, nil
}

// AppendNote adds a line to the free-form notes.
func (a *Advance) AppendNote(note string) {
	a.Notes = appendLine(a.Notes, note)
}

// SortAdvancesFIFO orders advances oldest first by paid date, then by id.
func SortAdvancesFIFO(advances []*Advance) {
	sort.SliceStable(advances, func(i, j int) bool {
		if !advances[i].PaidDate.Equal(advances[j].PaidDate) {
			return advances[i].PaidDate.Before(advances[j].PaidDate)
		}
		return advances[i].ID < advances[j].ID
	})
}

// AvailableBalance sums the remaining balance of ACTIVE advances.
func AvailableBalance(advances []*Advance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range advances {
		if a.IsActive() {
			total = total.Add(a.RemainingBalance)
		}
	}
	return total
}

func withReason(note, reason string) string {
	if reason == "" {
		return note
	}
	return note + ": " + reason
}

func appendLine(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
