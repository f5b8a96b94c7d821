package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// ReportService builds period reports.
type ReportService interface {
	BuildReport(ctx context.Context, start, end time.Time) (*domain.Report, error)
}

// ReconciliationService checks and repairs stored ledger state.
type ReconciliationService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
	Repair(ctx context.Context) (*usecase.RecalculationResult, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	reportUC ReportService
	reconUC  ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reportUC ReportService, reconUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{reportUC: reportUC, reconUC: reconUC}
}

// Recalculate rewrites every running balance from the ordered entries.
func (h *LedgerHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.Repair(r.Context())
	if err != nil {
		writeFailure(w, r, "failed to recalculate balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculationFromUseCase(result))
}

// Report returns totals and entries for an inclusive date range.
func (h *LedgerHandler) Report(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateQuery(r, "start")
	if err != nil || start == nil {
		writeError(w, http.StatusBadRequest, "missing or invalid 'start' (use YYYY-MM-DD)", "")
		return
	}
	end, err := parseDateQuery(r, "end")
	if err != nil || end == nil {
		writeError(w, http.StatusBadRequest, "missing or invalid 'end' (use YYYY-MM-DD)", "")
		return
	}

	report, err := h.reportUC.BuildReport(r.Context(), *start, *end)
	if err != nil {
		writeFailure(w, r, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}

// CheckConsistency reports stored state that disagrees with a fresh computation.
// An inconsistent ledger answers 409 with the full report.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.CheckConsistency(r.Context())
	if err != nil {
		writeFailure(w, r, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ConsistencyFromUseCase(report))
}
