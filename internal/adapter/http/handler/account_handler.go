package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
}

// BalanceService defines the balance queries needed by AccountHandler.
type BalanceService interface {
	AccountBalance(ctx context.Context, accountCode string, asOf time.Time) (*domain.AccountBalance, error)
	OpeningBalance(ctx context.Context, accountCode string, date time.Time) (decimal.Decimal, error)
	Turnover(ctx context.Context, accountCode string, start, end time.Time) (*domain.Turnover, error)
}

// AccountHandler handles chart-of-accounts and balance HTTP requests.
type AccountHandler struct {
	accounts AccountService
	balances BalanceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService, balances BalanceService) *AccountHandler {
	return &AccountHandler{accounts: accounts, balances: balances}
}

// Create registers a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "code and name are required", "")
		return
	}

	account := req.ToDomain()
	if err := h.accounts.CreateAccount(r.Context(), account); err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by code.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	account, err := h.accounts.GetAccount(r.Context(), code)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists non-archived accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Balance returns the account balance as of a date.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	asOf, ok := parseDateQuery(w, r, "as_of")
	if !ok {
		return
	}

	balance, err := h.balances.AccountBalance(r.Context(), code, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// OpeningBalance returns the balance at the start of a date, before any
// of that day's postings.
func (h *AccountHandler) OpeningBalance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	date, ok := parseDateQuery(w, r, "date")
	if !ok {
		return
	}

	balance, err := h.balances.OpeningBalance(r.Context(), code, date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get opening balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_code":    code,
		"date":            dto.FormatDate(date),
		"opening_balance": balance,
	})
}

// Turnover returns gross debit and credit movement over a date range.
func (h *AccountHandler) Turnover(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	start, ok := parseDateQuery(w, r, "start")
	if !ok {
		return
	}

	end, ok := parseDateQuery(w, r, "end")
	if !ok {
		return
	}

	turnover, err := h.balances.Turnover(r.Context(), code, start, end)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get turnover", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TurnoverFromDomain(turnover))
}
