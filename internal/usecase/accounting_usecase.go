package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/domain"
)

// AccountingUseCase is the module facade consumed by the rest of the ERP.
// It composes the sequencer, period registry, posting engine, balance
// calculator, and journal reporting behind the public operation set.
type AccountingUseCase struct {
	Sequencer *SequencerUseCase
	Periods   *FiscalPeriodUseCase
	Posting   *PostingUseCase
	Balances  *BalanceUseCase
	Journal   *JournalUseCase

	accountRepo AccountRepository
}

// NewAccountingUseCase creates a new AccountingUseCase.
func NewAccountingUseCase(
	sequencer *SequencerUseCase,
	periods *FiscalPeriodUseCase,
	posting *PostingUseCase,
	balances *BalanceUseCase,
	journal *JournalUseCase,
	accountRepo AccountRepository,
) *AccountingUseCase {
	return &AccountingUseCase{
		Sequencer:   sequencer,
		Periods:     periods,
		Posting:     posting,
		Balances:    balances,
		Journal:     journal,
		accountRepo: accountRepo,
	}
}

// CreateTransactionFromDocument translates a document into an unposted
// transaction.
func (uc *AccountingUseCase) CreateTransactionFromDocument(ctx context.Context, doc domain.Document, description string) (*domain.Transaction, error) {
	return uc.Posting.CreateFromDocument(ctx, doc, description)
}

// PostTransaction posts a transaction. Already-posted transactions succeed.
func (uc *AccountingUseCase) PostTransaction(ctx context.Context, transaction *domain.Transaction) error {
	return uc.Posting.Post(ctx, transaction)
}

// UnPostTransaction reverts a posted transaction in an open period.
func (uc *AccountingUseCase) UnPostTransaction(ctx context.Context, transaction *domain.Transaction) error {
	return uc.Posting.UnPost(ctx, transaction)
}

// ValidateTransaction reports whether the transaction could be posted as
// far as the balance rule is concerned.
func (uc *AccountingUseCase) ValidateTransaction(transaction *domain.Transaction) bool {
	return uc.Posting.Validate(transaction) == nil
}

// GetAccountBalance returns the signed balance of an account as of a date.
func (uc *AccountingUseCase) GetAccountBalance(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	return uc.Balances.BalanceAsOf(ctx, accountCode, asOf)
}

// OpenFiscalPeriod opens the period with the given code.
func (uc *AccountingUseCase) OpenFiscalPeriod(ctx context.Context, code, actor string) error {
	return uc.Periods.Open(ctx, code, actor)
}

// CloseFiscalPeriod closes the period with the given code.
func (uc *AccountingUseCase) CloseFiscalPeriod(ctx context.Context, code, actor string) error {
	return uc.Periods.Close(ctx, code, actor)
}

// IsDateInOpenPeriod reports whether a posting dated date would pass the
// period gate.
func (uc *AccountingUseCase) IsDateInOpenPeriod(ctx context.Context, date time.Time) (bool, error) {
	return uc.Periods.IsDateInOpenPeriod(ctx, date)
}

// GetJournalEntries lists ledger entries matching the filter.
func (uc *AccountingUseCase) GetJournalEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	return uc.Journal.QueryEntries(ctx, filter)
}

// GenerateJournalReport produces a journal report with totals.
func (uc *AccountingUseCase) GenerateJournalReport(ctx context.Context, filter domain.EntryFilter) (*domain.JournalReport, error) {
	return uc.Journal.GenerateReport(ctx, filter)
}

// GenerateAuditTrail reconstructs one transaction's audit trail.
func (uc *AccountingUseCase) GenerateAuditTrail(ctx context.Context, transactionNumber string) (*domain.AuditTrail, error) {
	return uc.Journal.AuditTrail(ctx, transactionNumber)
}

// CreateAccount registers an account in the chart of accounts.
func (uc *AccountingUseCase) CreateAccount(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	return uc.accountRepo.Create(ctx, account)
}

// GetAccount retrieves an account by its code.
func (uc *AccountingUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccounts lists non-archived accounts.
func (uc *AccountingUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.ListActive(ctx)
}
