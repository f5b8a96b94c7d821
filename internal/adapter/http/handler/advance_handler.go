package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// AdvanceService defines the advance lifecycle operations used by AdvanceHandler.
type AdvanceService interface {
	CreateAdvancePayment(ctx context.Context, input usecase.CreateAdvanceInput) (*domain.Advance, error)
	RefundAdvancePayment(ctx context.Context, advanceID, reason string) (*domain.Advance, error)
	RecordAdvanceRefund(ctx context.Context, advanceID, reason string) (*domain.Advance, *domain.Entry, error)
	TransferAdvance(ctx context.Context, advanceID, targetLeaseID, reason string) (*domain.Advance, error)
	GetAdvance(ctx context.Context, id string) (*domain.Advance, error)
	ListAdvances(ctx context.Context, leaseID string, status domain.AdvanceStatus) ([]*domain.Advance, error)
	GetAdvanceHistory(ctx context.Context, id string) (*usecase.AdvanceHistory, error)
}

// AllocationService covers pending payments from advance credit.
type AllocationService interface {
	GetAvailableBalance(ctx context.Context, leaseID string) (decimal.Decimal, error)
	ApplyAdvanceToPayment(ctx context.Context, paymentID string) (*usecase.AllocationResult, error)
	ApplyAdvanceToAllPendingPayments(ctx context.Context, leaseID string) (*usecase.AllocationStats, error)
}

// AdvanceHandler handles advance payment and allocation requests.
type AdvanceHandler struct {
	advanceUC    AdvanceService
	allocationUC AllocationService
}

// NewAdvanceHandler creates a new AdvanceHandler.
func NewAdvanceHandler(advanceUC AdvanceService, allocationUC AllocationService) *AdvanceHandler {
	return &AdvanceHandler{advanceUC: advanceUC, allocationUC: allocationUC}
}

// Balance returns the unused advance credit of a lease.
func (h *AdvanceHandler) Balance(w http.ResponseWriter, r *http.Request) {
	leaseID := chi.URLParam(r, "leaseID")

	available, err := h.allocationUC.GetAvailableBalance(r.Context(), leaseID)
	if err != nil {
		writeFailure(w, r, "failed to get advance balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{LeaseID: leaseID, Available: available})
}

// ListByLease lists a lease's advances, optionally filtered by ?status=.
func (h *AdvanceHandler) ListByLease(w http.ResponseWriter, r *http.Request) {
	leaseID := chi.URLParam(r, "leaseID")
	status := domain.AdvanceStatus(strings.ToUpper(r.URL.Query().Get("status")))

	advances, err := h.advanceUC.ListAdvances(r.Context(), leaseID, status)
	if err != nil {
		writeFailure(w, r, "failed to list advances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AdvancesFromDomain(advances))
}

// Create records an advance payment for a lease.
func (h *AdvanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	leaseID := chi.URLParam(r, "leaseID")

	var req dto.CreateAdvanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(leaseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	advance, err := h.advanceUC.CreateAdvancePayment(r.Context(), input)
	if err != nil {
		writeFailure(w, r, "failed to create advance", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AdvanceFromDomain(advance))
}

// ApplyToLease covers every pending payment of a lease, oldest due date first.
func (h *AdvanceHandler) ApplyToLease(w http.ResponseWriter, r *http.Request) {
	stats, err := h.allocationUC.ApplyAdvanceToAllPendingPayments(r.Context(), chi.URLParam(r, "leaseID"))
	if err != nil {
		writeFailure(w, r, "failed to apply advances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AllocationStatsFromUseCase(stats))
}

// ApplyToPayment covers one payment from its lease's advances.
func (h *AdvanceHandler) ApplyToPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	result, err := h.allocationUC.ApplyAdvanceToPayment(r.Context(), paymentID)
	if err != nil {
		writeFailure(w, r, "failed to apply advance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AllocationFromUseCase(result))
}

// History returns an advance with its audit trail and outbox events.
func (h *AdvanceHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.advanceUC.GetAdvanceHistory(r.Context(), chi.URLParam(r, "advanceID"))
	if err != nil {
		writeFailure(w, r, "failed to get advance history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AdvanceHistoryFromUseCase(history))
}

// Get retrieves an advance by ID.
func (h *AdvanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	advance, err := h.advanceUC.GetAdvance(r.Context(), chi.URLParam(r, "advanceID"))
	if err != nil {
		writeFailure(w, r, "failed to get advance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AdvanceFromDomain(advance))
}

// Refund refunds an advance's unused balance. With record_entry set it also books the
// ADVANCE_REFUND debit in the same transaction.
func (h *AdvanceHandler) Refund(w http.ResponseWriter, r *http.Request) {
	advanceID := chi.URLParam(r, "advanceID")

	var req dto.RefundAdvanceRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	var (
		advance *domain.Advance
		entry   *domain.Entry
		err     error
	)
	if req.RecordEntry {
		advance, entry, err = h.advanceUC.RecordAdvanceRefund(r.Context(), advanceID, req.Reason)
	} else {
		advance, err = h.advanceUC.RefundAdvancePayment(r.Context(), advanceID, req.Reason)
	}
	if err != nil {
		writeFailure(w, r, "failed to refund advance", err)
		return
	}

	resp := dto.RefundResponse{Advance: dto.AdvanceFromDomain(advance)}
	if entry != nil {
		resp.Entry = dto.EntryFromDomain(entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Transfer moves an advance's unused balance to another lease.
func (h *AdvanceHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferAdvanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	advance, err := h.advanceUC.TransferAdvance(r.Context(), chi.URLParam(r, "advanceID"), req.TargetLeaseID, req.Reason)
	if err != nil {
		writeFailure(w, r, "failed to transfer advance", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AdvanceFromDomain(advance))
}
