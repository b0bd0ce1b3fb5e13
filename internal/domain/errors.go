package domain

import "errors"

var (
	// Validation errors
	ErrUnbalancedTransaction = errors.New("transaction debits do not equal credits")
	ErrNoEntries             = errors.New("transaction has no ledger entries")
	ErrMissingAccountCode    = errors.New("ledger entry has no account code")
	ErrNonPositiveAmount     = errors.New("ledger entry amount must be positive")
	ErrInvalidEntryType      = errors.New("invalid entry type")

	// State errors
	ErrClosedPeriod = errors.New("fiscal period is closed")

	// Not-found errors
	ErrPeriodNotFound      = errors.New("no fiscal period covers the date")
	ErrSequenceNotFound    = errors.New("sequence not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Period configuration errors
	ErrInvalidPeriodRange = errors.New("period end date precedes start date")
	ErrDuplicateCode      = errors.New("code already exists")
)
