package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who changed what in the ledger and with which before/after state.
type AuditLog struct {
	ID           string
	Actor        string // caller identity, free-form
	Action       string
	ResourceType string // entry, advance, payment, ledger
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

type AuditAction string

const (
	AuditActionEntryCreate       AuditAction = "entry.create"
	AuditActionLedgerRecalculate AuditAction = "ledger.recalculate"
	AuditActionAdvanceCreate     AuditAction = "advance.create"
	AuditActionAdvanceApply      AuditAction = "advance.apply"
	AuditActionAdvanceRefund     AuditAction = "advance.refund"
	AuditActionAdvanceTransfer   AuditAction = "advance.transfer"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
