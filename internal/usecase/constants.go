package usecase

import "time"

const (
	// SeqTransactions is the sequence code for transaction numbers.
	SeqTransactions = "transactions"

	// SeqLedgerEntries is the sequence code for ledger-entry numbers.
	SeqLedgerEntries = "ledger-entries"

	// ReportCacheTTL bounds staleness of cached read-side reports. Cache
	// keys carry a ledger generation counter, so a successful post also
	// invalidates by changing the key.
	ReportCacheTTL = 5 * time.Minute

	// ledgerGenerationKey is the cache counter bumped on every post/unpost.
	ledgerGenerationKey = "ledger:generation"
)
