package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/usecase"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	CreatePeriod(ctx context.Context, input usecase.CreatePeriodInput) (*domain.FiscalPeriod, error)
	GetPeriod(ctx context.Context, code string) (*domain.FiscalPeriod, error)
	ListByStatus(ctx context.Context, status domain.PeriodStatus) ([]*domain.FiscalPeriod, error)
	Open(ctx context.Context, code, actor string) error
	Close(ctx context.Context, code, actor string) error
	IsDateInOpenPeriod(ctx context.Context, date time.Time) (bool, error)
}

// PeriodHandler handles fiscal period HTTP requests.
type PeriodHandler struct {
	periods PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periods PeriodService) *PeriodHandler {
	return &PeriodHandler{periods: periods}
}

// Create registers a new fiscal period.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	period, err := h.periods.CreatePeriod(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create period", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodFromDomain(period))
}

// Get retrieves a period by code.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	period, err := h.periods.GetPeriod(r.Context(), code)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// List lists periods by status. Defaults to open periods.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.PeriodStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.PeriodOpen
	}

	if status != domain.PeriodOpen && status != domain.PeriodClosed {
		writeError(w, http.StatusBadRequest, "invalid status", string(status))
		return
	}

	periods, err := h.periods.ListByStatus(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list periods", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(periods))
}

// Open opens a period.
func (h *PeriodHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.periods.Open)
}

// Close closes a period.
func (h *PeriodHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.periods.Close)
}

func (h *PeriodHandler) changeStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string) error) {
	code := chi.URLParam(r, "code")

	var req dto.PeriodActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = domain.SystemActor
	}

	if err := op(r.Context(), code, actor); err != nil {
		writeError(w, mapDomainError(err), "failed to change period status", err.Error())
		return
	}

	period, err := h.periods.GetPeriod(r.Context(), code)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// Check reports whether a date falls inside an open period.
func (h *PeriodHandler) Check(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateQuery(w, r, "date")
	if !ok {
		return
	}

	open, err := h.periods.IsDateInOpenPeriod(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date": dto.FormatDate(date),
		"open": open,
	})
}
