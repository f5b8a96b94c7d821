package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntryFromPayment(ctx context.Context, paymentID string) (*domain.Entry, error)
	CreateEntryFromExpense(ctx context.Context, expenseID string) (*domain.Entry, error)
	CreateManualEntry(ctx context.Context, input usecase.ManualEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// FromPayment books the credit for a payment. Repeated calls return the same entry.
func (h *EntryHandler) FromPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	entry, err := h.entryUC.CreateEntryFromPayment(r.Context(), paymentID)
	if err != nil {
		writeFailure(w, r, "failed to create entry from payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// FromExpense books the debit for an expense.
func (h *EntryHandler) FromExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseID")
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	entry, err := h.entryUC.CreateEntryFromExpense(r.Context(), expenseID)
	if err != nil {
		writeFailure(w, r, "failed to create entry from expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Create records a manual entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entry, err := h.entryUC.CreateManualEntry(r.Context(), input)
	if err != nil {
		writeFailure(w, r, "failed to create entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "entryID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeFailure(w, r, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists entries in ledger order. Supported filters: start, end, type, category,
// property_id, advance_id, limit and offset.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateQuery(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'start' (use YYYY-MM-DD)", err.Error())
		return
	}
	end, err := parseDateQuery(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'end' (use YYYY-MM-DD)", err.Error())
		return
	}

	filter := usecase.EntryFilter{
		StartDate:  start,
		EndDate:    end,
		PropertyID: r.URL.Query().Get("property_id"),
		AdvanceID:  r.URL.Query().Get("advance_id"),
		Limit:      parseIntQuery(r, "limit", 100),
		Offset:     parseIntQuery(r, "offset", 0),
	}
	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type, err = domain.ParseEntryType(t)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'type'", err.Error())
			return
		}
	}
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		filter.Category = domain.NormalizeCategory(c)
	}

	entries, err := h.entryUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
