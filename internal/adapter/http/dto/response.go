package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"`
	EntryDate      string          `json:"entry_date"`
	Description    string          `json:"description"`
	Type           string          `json:"type"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	Reference      string          `json:"reference,omitempty"`
	PaymentID      string          `json:"payment_id,omitempty"`
	ExpenseID      string          `json:"expense_id,omitempty"`
	AdvanceID      string          `json:"advance_id,omitempty"`
	PropertyID     string          `json:"property_id,omitempty"`
	OwnerID        string          `json:"owner_id,omitempty"`
	OrganizationID string          `json:"organization_id,omitempty"`
	CompanyID      string          `json:"company_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		Seq:            e.Seq,
		EntryDate:      e.EntryDate.Format(dateLayout),
		Description:    e.Description,
		Type:           string(e.Type),
		Category:       string(e.Category),
		Amount:         e.Amount,
		RunningBalance: e.RunningBalance,
		Reference:      e.Reference,
		PaymentID:      e.PaymentID,
		ExpenseID:      e.ExpenseID,
		AdvanceID:      e.AdvanceID,
		PropertyID:     e.PropertyID,
		OwnerID:        e.OwnerID,
		OrganizationID: e.OrganizationID,
		CompanyID:      e.CompanyID,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// AdvanceResponse represents an advance payment.
type AdvanceResponse struct {
	ID                string          `json:"id"`
	LeaseID           string          `json:"lease_id"`
	Amount            decimal.Decimal `json:"amount"`
	RemainingBalance  decimal.Decimal `json:"remaining_balance"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	PaidDate          time.Time       `json:"paid_date"`
	TransferredFromID string          `json:"transferred_from_id,omitempty"`
	TransferredToID   string          `json:"transferred_to_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// AdvanceFromDomain converts a domain advance to response.
func AdvanceFromDomain(a *domain.Advance) *AdvanceResponse {
	return &AdvanceResponse{
		ID:                a.ID,
		LeaseID:           a.LeaseID,
		Amount:            a.Amount,
		RemainingBalance:  a.RemainingBalance,
		Status:            string(a.Status),
		PaymentMethod:     a.PaymentMethod,
		Reference:         a.Reference,
		Notes:             a.Notes,
		PaidDate:          a.PaidDate,
		TransferredFromID: a.TransferredFromID,
		TransferredToID:   a.TransferredToID,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// AdvancesFromDomain converts domain advances to responses.
func AdvancesFromDomain(advances []*domain.Advance) []*AdvanceResponse {
	result := make([]*AdvanceResponse, len(advances))
	for i, a := range advances {
		result[i] = AdvanceFromDomain(a)
	}
	return result
}

// AuditLogResponse is one audit record.
type AuditLogResponse struct {
	ID          string      `json:"id"`
	Actor       string      `json:"actor,omitempty"`
	Action      string      `json:"action"`
	RequestID   string      `json:"request_id,omitempty"`
	BeforeState domain.JSON `json:"before_state,omitempty"`
	AfterState  domain.JSON `json:"after_state,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// EventResponse is one outbox event.
type EventResponse struct {
	ID          string         `json:"id"`
	EventType   string         `json:"event_type"`
	Payload     map[string]any `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
}

// AdvanceHistoryResponse is an advance with its audit trail and events.
type AdvanceHistoryResponse struct {
	Advance *AdvanceResponse    `json:"advance"`
	Audit   []*AuditLogResponse `json:"audit"`
	Events  []*EventResponse    `json:"events"`
}

// AdvanceHistoryFromUseCase converts an advance history to response.
func AdvanceHistoryFromUseCase(h *usecase.AdvanceHistory) *AdvanceHistoryResponse {
	resp := &AdvanceHistoryResponse{
		Advance: AdvanceFromDomain(h.Advance),
		Audit:   make([]*AuditLogResponse, len(h.Audit)),
		Events:  make([]*EventResponse, len(h.Events)),
	}
	for i, l := range h.Audit {
		resp.Audit[i] = &AuditLogResponse{
			ID:          l.ID,
			Actor:       l.Actor,
			Action:      l.Action,
			RequestID:   l.RequestID,
			BeforeState: l.BeforeState,
			AfterState:  l.AfterState,
			CreatedAt:   l.CreatedAt,
		}
	}
	for i, e := range h.Events {
		resp.Events[i] = &EventResponse{
			ID:          e.ID,
			EventType:   e.EventType,
			Payload:     e.Payload,
			CreatedAt:   e.CreatedAt,
			PublishedAt: e.PublishedAt,
		}
	}
	return resp
}

// RefundResponse is the refunded advance and, when requested, its ledger entry.
type RefundResponse struct {
	Advance *AdvanceResponse `json:"advance"`
	Entry   *EntryResponse   `json:"entry,omitempty"`
}

// PaymentResponse represents a payment and its settlement state.
type PaymentResponse struct {
	ID             string          `json:"id"`
	LeaseID        string          `json:"lease_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	AdvanceCovered decimal.Decimal `json:"advance_covered"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Status         string          `json:"status"`
	DueDate        string          `json:"due_date"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// PaymentFromDomain converts a domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		LeaseID:        p.LeaseID,
		Type:           p.Type,
		Amount:         p.Amount,
		AdvanceCovered: p.AdvanceCovered,
		Outstanding:    p.Outstanding(),
		Status:         string(p.Status),
		DueDate:        p.DueDate.Format(dateLayout),
		PaidDate:       p.PaidDate,
		PaymentMethod:  p.PaymentMethod,
		Reference:      p.Reference,
		Notes:          p.Notes,
	}
}

// LeaseResponse represents a lease.
type LeaseResponse struct {
	ID             string `json:"id"`
	Reference      string `json:"reference,omitempty"`
	PropertyID     string `json:"property_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
}

// LeaseFromDomain converts a domain lease to response.
func LeaseFromDomain(l *domain.Lease) *LeaseResponse {
	return &LeaseResponse{
		ID:             l.ID,
		Reference:      l.Reference,
		PropertyID:     l.PropertyID,
		OwnerID:        l.OwnerID,
		OrganizationID: l.OrganizationID,
		CompanyID:      l.CompanyID,
	}
}

// ExpenseResponse represents an expense.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	PropertyID  string          `json:"property_id,omitempty"`
}

// ExpenseFromDomain converts a domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date.Format(dateLayout),
		PropertyID:  e.PropertyID,
	}
}

// BalanceResponse is a lease's available advance credit.
type BalanceResponse struct {
	LeaseID   string          `json:"lease_id"`
	Available decimal.Decimal `json:"available"`
}

// AllocationResponse is the outcome of covering one payment.
type AllocationResponse struct {
	PaymentID   string               `json:"payment_id"`
	AmountUsed  decimal.Decimal      `json:"amount_used"`
	Remaining   decimal.Decimal      `json:"remaining"`
	FullyPaid   bool                 `json:"fully_paid"`
	Allocations []AllocationLineItem `json:"allocations"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// AllocationLineItem is the amount taken from one advance.
type AllocationLineItem struct {
	AdvanceID        string          `json:"advance_id"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// AllocationFromUseCase converts an allocation result to response.
func AllocationFromUseCase(r *usecase.AllocationResult) *AllocationResponse {
	items := make([]AllocationLineItem, len(r.Allocations))
	for i, a := range r.Allocations {
		items[i] = AllocationLineItem{AdvanceID: a.AdvanceID, Amount: a.Amount, RemainingBalance: a.RemainingBalance}
	}
	return &AllocationResponse{
		PaymentID:   r.PaymentID,
		AmountUsed:  r.AmountUsed,
		Remaining:   r.Remaining,
		FullyPaid:   r.FullyPaid,
		Allocations: items,
		Warnings:    r.Warnings,
	}
}

// AllocationStatsResponse aggregates a lease-wide allocation run.
type AllocationStatsResponse struct {
	LeaseID   string          `json:"lease_id"`
	Processed int             `json:"processed"`
	FullyPaid int             `json:"fully_paid"`
	TotalUsed decimal.Decimal `json:"total_used"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// AllocationStatsFromUseCase converts lease-wide stats to response.
func AllocationStatsFromUseCase(s *usecase.AllocationStats) *AllocationStatsResponse {
	return &AllocationStatsResponse{
		LeaseID:   s.LeaseID,
		Processed: s.Processed,
		FullyPaid: s.FullyPaid,
		TotalUsed: s.TotalUsed,
		Warnings:  s.Warnings,
	}
}

// CategoryTotalsResponse holds one category's subtotals.
type CategoryTotalsResponse struct {
	Category string          `json:"category"`
	Credits  decimal.Decimal `json:"credits"`
	Debits   decimal.Decimal `json:"debits"`
}

// ReportResponse is a period report.
type ReportResponse struct {
	StartDate    string                   `json:"start_date"`
	EndDate      string                   `json:"end_date"`
	TotalCredits decimal.Decimal          `json:"total_credits"`
	TotalDebits  decimal.Decimal          `json:"total_debits"`
	Net          decimal.Decimal          `json:"net"`
	ByCategory   []CategoryTotalsResponse `json:"by_category"`
	Entries      []*EntryResponse         `json:"entries"`
}

// ReportFromDomain converts a report to response. Categories are sorted by name.
func ReportFromDomain(r *domain.Report) *ReportResponse {
	categories := make([]CategoryTotalsResponse, 0, len(r.ByCategory))
	for c, totals := range r.ByCategory {
		categories = append(categories, CategoryTotalsResponse{
			Category: string(c),
			Credits:  totals.Credits,
			Debits:   totals.Debits,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })

	return &ReportResponse{
		StartDate:    r.StartDate.Format(dateLayout),
		EndDate:      r.EndDate.Format(dateLayout),
		TotalCredits: r.TotalCredits,
		TotalDebits:  r.TotalDebits,
		Net:          r.Net,
		ByCategory:   categories,
		Entries:      EntriesFromDomain(r.Entries),
	}
}

// RecalculationResponse reports a full running-balance rewrite.
type RecalculationResponse struct {
	Entries      int             `json:"entries"`
	Updated      int             `json:"updated"`
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// RecalculationFromUseCase converts a recalculation result to response.
func RecalculationFromUseCase(r *usecase.RecalculationResult) *RecalculationResponse {
	return &RecalculationResponse{Entries: r.Entries, Updated: r.Updated, FinalBalance: r.FinalBalance}
}

// ConsistencyResponse reports stored state that disagrees with a fresh computation.
type ConsistencyResponse struct {
	Consistent          bool                       `json:"consistent"`
	CheckedAt           time.Time                  `json:"checked_at"`
	Entries             int                        `json:"entries"`
	Advances            int                        `json:"advances"`
	FinalBalance        decimal.Decimal            `json:"final_balance"`
	BalanceMismatches   []usecase.BalanceMismatch  `json:"balance_mismatches,omitempty"`
	AdvanceViolations   []usecase.AdvanceViolation `json:"advance_violations,omitempty"`
	OvercoveredPayments []string                   `json:"overcovered_payments,omitempty"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:          r.Consistent,
		CheckedAt:           r.CheckedAt,
		Entries:             r.Entries,
		Advances:            r.Advances,
		FinalBalance:        r.FinalBalance,
		BalanceMismatches:   r.BalanceMismatches,
		AdvanceViolations:   r.AdvanceViolations,
		OvercoveredPayments: r.OvercoveredPayments,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Details []ValidationDetail `json:"details,omitempty"`
}
