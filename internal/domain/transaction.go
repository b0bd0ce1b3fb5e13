package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a balanced set of ledger entries produced from a business
// document. TransactionNumber stays empty until the transaction is posted.
type Transaction struct {
	ID                string
	TransactionNumber string
	TransactionDate   time.Time
	Description       string
	DocumentNumber    string
	IsPosted          bool
	Entries           []*LedgerEntry
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TotalDebits sums the amounts of all debit entries.
func (t *Transaction) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		if e.EntryType == Debit {
			total = total.Add(e.Amount)
		}
	}

	return total
}

// TotalCredits sums the amounts of all credit entries.
func (t *Transaction) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		if e.EntryType == Credit {
			total = total.Add(e.Amount)
		}
	}

	return total
}

// IsBalanced reports whether debits equal credits exactly. No tolerance.
func (t *Transaction) IsBalanced() bool {
	return t.TotalDebits().Equal(t.TotalCredits())
}

// Validate checks every entry and the balance invariant.
func (t *Transaction) Validate() error {
	if len(t.Entries) == 0 {
		return ErrNoEntries
	}

	for _, e := range t.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	if !t.IsBalanced() {
		return ErrUnbalancedTransaction
	}

	return nil
}

// AccountCodes returns the distinct account codes touched by the
// transaction, in first-seen order.
func (t *Transaction) AccountCodes() []string {
	seen := make(map[string]bool)

	var codes []string
	for _, e := range t.Entries {
		if !seen[e.AccountCode] {
			seen[e.AccountCode] = true
			codes = append(codes, e.AccountCode)
		}
	}

	return codes
}
