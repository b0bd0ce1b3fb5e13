package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is a derived point-in-time balance for one account.
// Balance is signed: positive means net debit.
type AccountBalance struct {
	AccountCode string
	AsOf        time.Time
	Debits      decimal.Decimal
	Credits     decimal.Decimal
	Balance     decimal.Decimal
}

// Turnover is the gross debit and credit movement on an account over an
// inclusive date range. The two sides are never netted.
type Turnover struct {
	AccountCode    string
	StartDate      time.Time
	EndDate        time.Time
	DebitTurnover  decimal.Decimal
	CreditTurnover decimal.Decimal
}

// TrialBalanceRow is one account's aggregate in a trial balance. The net
// balance is normalized by the account's natural side, so a debit-normal
// account with a net debit shows a positive NetBalance in DebitBalance.
type TrialBalanceRow struct {
	AccountCode   string
	AccountName   string
	AccountType   AccountType
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
	NetBalance    decimal.Decimal
}

// TrialBalance aggregates every non-archived account as of a date.
type TrialBalance struct {
	AsOf         time.Time
	Rows         []TrialBalanceRow
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

// IsBalanced reports whether total debit balances equal total credit
// balances, which holds whenever only balanced transactions were posted.
func (tb *TrialBalance) IsBalanced() bool {
	return tb.TotalDebits.Equal(tb.TotalCredits)
}

// JournalReport wraps a journal query with aggregate totals.
type JournalReport struct {
	Entries      []*LedgerEntry
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	IsBalanced   bool
	GeneratedAt  time.Time
}

// AuditTrail is a read-only reconstruction of one posted transaction,
// proving its integrity after the fact.
type AuditTrail struct {
	TransactionNumber string
	TransactionDate   time.Time
	Description       string
	IsPosted          bool
	Entries           []*LedgerEntry
	TotalDebits       decimal.Decimal
	TotalCredits      decimal.Decimal
	IsBalanced        bool
	AccountCodes      []string
	Activities        []*Activity
}
