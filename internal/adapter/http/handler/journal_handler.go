package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
)

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	QueryEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	GenerateReport(ctx context.Context, filter domain.EntryFilter) (*domain.JournalReport, error)
	AuditTrail(ctx context.Context, transactionNumber string) (*domain.AuditTrail, error)
}

// TrialBalanceService defines the report query needed by JournalHandler.
type TrialBalanceService interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}

// JournalHandler handles journal and report HTTP requests.
type JournalHandler struct {
	journal JournalService
	reports TrialBalanceService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journal JournalService, reports TrialBalanceService) *JournalHandler {
	return &JournalHandler{journal: journal, reports: reports}
}

// Entries lists ledger entries matching the query filters.
func (h *JournalHandler) Entries(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.buildFilter(w, r)
	if !ok {
		return
	}

	entries, err := h.journal.QueryEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Report generates a journal report with totals.
func (h *JournalHandler) Report(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.buildFilter(w, r)
	if !ok {
		return
	}

	report, err := h.journal.GenerateReport(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalReportFromDomain(report))
}

// AuditTrail reconstructs one transaction's audit trail.
func (h *JournalHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	trail, err := h.journal.AuditTrail(r.Context(), number)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build audit trail", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditTrailFromDomain(trail))
}

// TrialBalance generates the trial balance as of a date.
func (h *JournalHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseDateQuery(w, r, "as_of")
	if !ok {
		return
	}

	tb, err := h.reports.TrialBalance(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(tb))
}

func (h *JournalHandler) buildFilter(w http.ResponseWriter, r *http.Request) (domain.EntryFilter, bool) {
	filter := domain.EntryFilter{
		AccountCode:       r.URL.Query().Get("account_code"),
		TransactionNumber: r.URL.Query().Get("transaction_number"),
		PostedOnly:        r.URL.Query().Get("posted_only") == "true",
		SortDesc:          r.URL.Query().Get("sort") == "desc",
		Limit:             parseIntQuery(r, "limit", 50),
		Offset:            parseIntQuery(r, "offset", 0),
	}

	if v := r.URL.Query().Get("start"); v != "" {
		start, err := dto.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'start' parameter", err.Error())
			return domain.EntryFilter{}, false
		}

		filter.StartDate = &start
	}

	if v := r.URL.Query().Get("end"); v != "" {
		end, err := dto.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'end' parameter", err.Error())
			return domain.EntryFilter{}, false
		}

		filter.EndDate = &end
	}

	return filter, true
}
