package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Advance struct {
	ID                string             `json:"id"`
	LeaseID           string             `json:"lease_id"`
	Amount            pgtype.Numeric     `json:"amount"`
	RemainingBalance  pgtype.Numeric     `json:"remaining_balance"`
	Status            string             `json:"status"`
	PaymentMethod     string             `json:"payment_method"`
	Reference         string             `json:"reference"`
	Notes             string             `json:"notes"`
	PaidDate          pgtype.Timestamptz `json:"paid_date"`
	TransferredFromID pgtype.Text        `json:"transferred_from_id"`
	TransferredToID   pgtype.Text        `json:"transferred_to_id"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type AuditLog struct {
	ID           string             `json:"id"`
	Actor        string             `json:"actor"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	RequestID    string             `json:"request_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Entry struct {
	Seq            int64              `json:"seq"`
	ID             string             `json:"id"`
	EntryDate      pgtype.Date        `json:"entry_date"`
	Description    string             `json:"description"`
	Amount         pgtype.Numeric     `json:"amount"`
	EntryType      string             `json:"entry_type"`
	Category       string             `json:"category"`
	Reference      string             `json:"reference"`
	PaymentID      pgtype.Text        `json:"payment_id"`
	ExpenseID      pgtype.Text        `json:"expense_id"`
	AdvanceID      pgtype.Text        `json:"advance_id"`
	PropertyID     string             `json:"property_id"`
	OwnerID        string             `json:"owner_id"`
	OrganizationID string             `json:"organization_id"`
	CompanyID      string             `json:"company_id"`
	Notes          string             `json:"notes"`
	RunningBalance pgtype.Numeric     `json:"running_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type Expense struct {
	ID             string             `json:"id"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	Amount         pgtype.Numeric     `json:"amount"`
	ExpenseDate    pgtype.Date        `json:"expense_date"`
	PropertyID     string             `json:"property_id"`
	OwnerID        string             `json:"owner_id"`
	OrganizationID string             `json:"organization_id"`
	CompanyID      string             `json:"company_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type Lease struct {
	ID             string             `json:"id"`
	Reference      string             `json:"reference"`
	PropertyID     string             `json:"property_id"`
	OwnerID        string             `json:"owner_id"`
	OrganizationID string             `json:"organization_id"`
	CompanyID      string             `json:"company_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type LedgerState struct {
	ID       int16 `json:"id"`
	Revision int64 `json:"revision"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}

type Payment struct {
	ID             string             `json:"id"`
	LeaseID        string             `json:"lease_id"`
	PaymentType    string             `json:"payment_type"`
	Amount         pgtype.Numeric     `json:"amount"`
	AdvanceCovered pgtype.Numeric     `json:"advance_covered"`
	Status         string             `json:"status"`
	DueDate        pgtype.Date        `json:"due_date"`
	PaidDate       pgtype.Timestamptz `json:"paid_date"`
	PaymentMethod  string             `json:"payment_method"`
	Reference      string             `json:"reference"`
	Notes          string             `json:"notes"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}
