package domain

import "time"

// Event types
const (
	EventTypeEntryCreated       = "entry.created"
	EventTypeAdvanceCreated     = "advance.created"
	EventTypeAdvanceApplied     = "advance.applied"
	EventTypeAdvanceRefunded    = "advance.refunded"
	EventTypeAdvanceTransferred = "advance.transferred"
	EventTypePaymentCovered     = "payment.covered"
	EventTypeLedgerRecalculated = "ledger.recalculated"
)

// Aggregate types
const (
	AggregateTypeEntry   = "entry"
	AggregateTypeAdvance = "advance"
	AggregateTypePayment = "payment"
	AggregateTypeLedger  = "ledger"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryCreatedEvent payload
type EntryCreatedEvent struct {
	EntryID        string `json:"entry_id"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	RunningBalance string `json:"running_balance"`
	PaymentID      string `json:"payment_id,omitempty"`
	ExpenseID      string `json:"expense_id,omitempty"`
	AdvanceID      string `json:"advance_id,omitempty"`
	EntryDate      string `json:"entry_date"`
}

// AdvanceCreatedEvent payload
type AdvanceCreatedEvent struct {
	AdvanceID string `json:"advance_id"`
	LeaseID   string `json:"lease_id"`
	Amount    string `json:"amount"`
	Method    string `json:"payment_method"`
}

// AdvanceAppliedEvent payload
type AdvanceAppliedEvent struct {
	AdvanceID        string `json:"advance_id"`
	PaymentID        string `json:"payment_id"`
	LeaseID          string `json:"lease_id"`
	Amount           string `json:"amount"`
	RemainingBalance string `json:"remaining_balance"`
}

// AdvanceRefundedEvent payload
type AdvanceRefundedEvent struct {
	AdvanceID string `json:"advance_id"`
	LeaseID   string `json:"lease_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason,omitempty"`
}

// AdvanceTransferredEvent payload
type AdvanceTransferredEvent struct {
	SourceAdvanceID string `json:"source_advance_id"`
	TargetAdvanceID string `json:"target_advance_id"`
	FromLeaseID     string `json:"from_lease_id"`
	ToLeaseID       string `json:"to_lease_id"`
	Amount          string `json:"amount"`
}

// PaymentCoveredEvent payload
type PaymentCoveredEvent struct {
	PaymentID string `json:"payment_id"`
	LeaseID   string `json:"lease_id"`
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
}

// LedgerRecalculatedEvent payload
type LedgerRecalculatedEvent struct {
	Entries      int    `json:"entries"`
	Updated      int    `json:"updated"`
	FinalBalance string `json:"final_balance"`
}
