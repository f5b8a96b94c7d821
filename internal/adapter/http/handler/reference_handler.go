package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
)

// ReferenceService receives the leases, payments and expenses the ledger reads.
type ReferenceService interface {
	RegisterLease(ctx context.Context, lease domain.Lease) (*domain.Lease, error)
	RegisterPayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
	RegisterExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
}

// ReferenceHandler handles reference-data intake.
type ReferenceHandler struct {
	refUC ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(refUC ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refUC: refUC}
}

// CreateLease registers a lease.
func (h *ReferenceHandler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterLeaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lease, err := h.refUC.RegisterLease(r.Context(), req.ToDomain())
	if err != nil {
		writeFailure(w, r, "failed to register lease", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LeaseFromDomain(lease))
}

// CreatePayment registers a payment. Auto-apply may cover it before the response is written.
func (h *ReferenceHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	payment, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	stored, err := h.refUC.RegisterPayment(r.Context(), payment)
	if err != nil {
		writeFailure(w, r, "failed to register payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(stored))
}

// CreateExpense registers an expense.
func (h *ReferenceHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	expense, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	stored, err := h.refUC.RegisterExpense(r.Context(), expense)
	if err != nil {
		writeFailure(w, r, "failed to register expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(stored))
}

// GetPayment retrieves a payment with its settlement state.
func (h *ReferenceHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.refUC.GetPayment(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		writeFailure(w, r, "failed to get payment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}
