package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/usecase"
)

// SequenceService defines the behavior needed by SequenceHandler.
type SequenceService interface {
	CreateSequence(ctx context.Context, input usecase.CreateSequenceInput) (*domain.Sequence, error)
	GetSequence(ctx context.Context, code string) (*domain.Sequence, error)
}

// SequenceHandler handles sequence HTTP requests.
type SequenceHandler struct {
	sequences SequenceService
}

// NewSequenceHandler creates a new SequenceHandler.
func NewSequenceHandler(sequences SequenceService) *SequenceHandler {
	return &SequenceHandler{sequences: sequences}
}

// Create registers a new counter.
func (h *SequenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required", "")
		return
	}

	sequence, err := h.sequences.CreateSequence(r.Context(), req.ToInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create sequence", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SequenceFromDomain(sequence))
}

// Get retrieves a counter's current state without advancing it.
func (h *SequenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	sequence, err := h.sequences.GetSequence(r.Context(), code)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get sequence", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SequenceFromDomain(sequence))
}
