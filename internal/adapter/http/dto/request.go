package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

const dateLayout = "2006-01-02"

// CreateEntryRequest represents a manual ledger entry.
type CreateEntryRequest struct {
	EntryDate      string `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Description    string `json:"description" validate:"required,max=255"`
	Type           string `json:"type" validate:"required,oneof=CREDIT DEBIT credit debit"`
	Category       string `json:"category" validate:"omitempty,max=50"`
	Amount         string `json:"amount" validate:"required,amount"`
	Reference      string `json:"reference,omitempty" validate:"max=100"`
	Notes          string `json:"notes,omitempty" validate:"max=4000"`
	PropertyID     string `json:"property_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() (usecase.ManualEntryInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.ManualEntryInput{}, fmt.Errorf("invalid amount: %w", err)
	}
	entryDate, err := time.Parse(dateLayout, r.EntryDate)
	if err != nil {
		return usecase.ManualEntryInput{}, fmt.Errorf("invalid entry_date: %w", err)
	}

	return usecase.ManualEntryInput{
		EntryDate:      entryDate,
		Description:    r.Description,
		Type:           r.Type,
		Category:       r.Category,
		Reference:      r.Reference,
		Notes:          r.Notes,
		PropertyID:     r.PropertyID,
		OwnerID:        r.OwnerID,
		OrganizationID: r.OrganizationID,
		CompanyID:      r.CompanyID,
		Amount:         amount,
	}, nil
}

// CreateAdvanceRequest records a prepayment for a lease.
type CreateAdvanceRequest struct {
	Amount        string     `json:"amount" validate:"required,amount"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty" validate:"max=50"`
	Reference     string     `json:"reference,omitempty" validate:"max=100"`
	Notes         string     `json:"notes,omitempty" validate:"max=4000"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAdvanceRequest) ToUseCaseInput(leaseID string) (usecase.CreateAdvanceInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.CreateAdvanceInput{}, fmt.Errorf("invalid amount: %w", err)
	}

	return usecase.CreateAdvanceInput{
		LeaseID:       leaseID,
		Amount:        amount,
		PaidDate:      r.PaidDate,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		Notes:         r.Notes,
	}, nil
}

// RefundAdvanceRequest refunds an advance. RecordEntry also books an ADVANCE_REFUND debit.
type RefundAdvanceRequest struct {
	Reason      string `json:"reason,omitempty" validate:"max=500"`
	RecordEntry bool   `json:"record_entry"`
}

// TransferAdvanceRequest moves an advance's unused balance to another lease.
type TransferAdvanceRequest struct {
	TargetLeaseID string `json:"target_lease_id" validate:"required"`
	Reason        string `json:"reason,omitempty" validate:"max=500"`
}

// RegisterLeaseRequest carries the tenancy tags copied onto a lease's entries.
type RegisterLeaseRequest struct {
	ID             string `json:"id,omitempty"`
	Reference      string `json:"reference,omitempty" validate:"max=100"`
	PropertyID     string `json:"property_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
}

// ToDomain converts to a domain lease.
func (r *RegisterLeaseRequest) ToDomain() domain.Lease {
	return domain.Lease{
		ID:             r.ID,
		Reference:      r.Reference,
		PropertyID:     r.PropertyID,
		OwnerID:        r.OwnerID,
		OrganizationID: r.OrganizationID,
		CompanyID:      r.CompanyID,
	}
}

// RegisterPaymentRequest carries a rent charge from the lease module.
type RegisterPaymentRequest struct {
	ID            string     `json:"id,omitempty"`
	LeaseID       string     `json:"lease_id" validate:"required"`
	Type          string     `json:"type,omitempty" validate:"max=50"`
	Amount        string     `json:"amount" validate:"required,amount"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=Pending Paid Overdue"`
	DueDate       string     `json:"due_date" validate:"required,datetime=2006-01-02"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty" validate:"max=50"`
	Reference     string     `json:"reference,omitempty" validate:"max=100"`
	Notes         string     `json:"notes,omitempty" validate:"max=4000"`
}

// ToDomain converts to a domain payment.
func (r *RegisterPaymentRequest) ToDomain() (domain.Payment, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("invalid amount: %w", err)
	}
	due, err := time.Parse(dateLayout, r.DueDate)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("invalid due_date: %w", err)
	}

	return domain.Payment{
		ID:            r.ID,
		LeaseID:       r.LeaseID,
		Type:          r.Type,
		Amount:        amount,
		Status:        domain.PaymentStatus(r.Status),
		DueDate:       due,
		PaidDate:      r.PaidDate,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		Notes:         r.Notes,
	}, nil
}

// RegisterExpenseRequest carries a property cost.
type RegisterExpenseRequest struct {
	ID             string `json:"id,omitempty"`
	Category       string `json:"category,omitempty" validate:"max=50"`
	Description    string `json:"description" validate:"required,max=255"`
	Amount         string `json:"amount" validate:"required,amount"`
	Date           string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PropertyID     string `json:"property_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
}

// ToDomain converts to a domain expense.
func (r *RegisterExpenseRequest) ToDomain() (domain.Expense, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("invalid amount: %w", err)
	}

	var date time.Time
	if r.Date != "" {
		date, err = time.Parse(dateLayout, r.Date)
		if err != nil {
			return domain.Expense{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	return domain.Expense{
		ID:             r.ID,
		Category:       r.Category,
		Description:    r.Description,
		Amount:         amount,
		Date:           date,
		PropertyID:     r.PropertyID,
		OwnerID:        r.OwnerID,
		OrganizationID: r.OrganizationID,
		CompanyID:      r.CompanyID,
	}, nil
}
