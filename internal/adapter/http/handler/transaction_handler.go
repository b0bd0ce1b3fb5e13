package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateFromDocument(ctx context.Context, doc domain.Document, description string) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	GetTransactionByNumber(ctx context.Context, number string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	Post(ctx context.Context, transaction *domain.Transaction) error
	UnPost(ctx context.Context, transaction *domain.Transaction) error
	Validate(transaction *domain.Transaction) error
}

// TransactionHandler handles transaction HTTP requests.
type TransactionHandler struct {
	transactions TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Create translates a business document into an unposted transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	doc, err := req.ToDocument()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document", err.Error())
		return
	}

	transaction, err := h.transactions.CreateFromDocument(r.Context(), doc, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transaction, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// GetByNumber retrieves a transaction by its posted number.
func (h *TransactionHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	transaction, err := h.transactions.GetTransactionByNumber(r.Context(), number)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// List lists transaction headers.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	transactions, err := h.transactions.ListTransactions(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

// Post commits a transaction to the ledger.
func (h *TransactionHandler) Post(w http.ResponseWriter, r *http.Request) {
	h.changePostedState(w, r, h.transactions.Post)
}

// UnPost reverts a posted transaction.
func (h *TransactionHandler) UnPost(w http.ResponseWriter, r *http.Request) {
	h.changePostedState(w, r, h.transactions.UnPost)
}

func (h *TransactionHandler) changePostedState(w http.ResponseWriter, r *http.Request, op func(context.Context, *domain.Transaction) error) {
	id := chi.URLParam(r, "id")

	transaction, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	if err := op(r.Context(), transaction); err != nil {
		writeError(w, mapDomainError(err), "failed to change posted state", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// Validate runs the balance check without touching the ledger.
func (h *TransactionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transaction, err := h.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	result := map[string]any{
		"id":    transaction.ID,
		"valid": true,
	}

	if err := h.transactions.Validate(transaction); err != nil {
		result["valid"] = false
		result["reason"] = err.Error()
	}

	writeJSON(w, http.StatusOK, result)
}
