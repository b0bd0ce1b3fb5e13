package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates which side of the ledger an entry lands on.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// Valid reports whether the entry type is one of the two known sides.
func (t EntryType) Valid() bool {
	return t == Debit || t == Credit
}

// LedgerEntry is a single debit or credit line belonging to a transaction.
// Amount is always a non-negative magnitude; direction is carried by
// EntryType, never by the sign of Amount.
type LedgerEntry struct {
	ID                string
	TransactionID     string
	LedgerEntryNumber string
	TransactionNumber string
	AccountCode       string
	EntryType         EntryType
	Amount            decimal.Decimal
	Description       string
	CreatedAt         time.Time
}

// Validate checks the entry in isolation.
func (e *LedgerEntry) Validate() error {
	if e.AccountCode == "" {
		return ErrMissingAccountCode
	}

	if !e.EntryType.Valid() {
		return ErrInvalidEntryType
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}

	return nil
}

// Signed returns the amount as a signed value: debits positive, credits negative.
func (e *LedgerEntry) Signed() decimal.Decimal {
	if e.EntryType == Credit {
		return e.Amount.Neg()
	}

	return e.Amount
}

// EntryFilter selects ledger entries for journal queries.
type EntryFilter struct {
	AccountCode       string
	TransactionNumber string
	StartDate         *time.Time
	EndDate           *time.Time
	PostedOnly        bool
	SortDesc          bool
	Limit             int
	Offset            int
}
