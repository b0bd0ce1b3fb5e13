package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the slice of a business document this core needs to turn it
// into a transaction. Document production itself belongs to collaborators.
type Document struct {
	Number      string
	Date        time.Time
	Description string
	Totals      []DocumentTotal
}

// DocumentTotal is one amount line of a document. Only totals flagged
// IncludeInTransaction become ledger entries.
type DocumentTotal struct {
	AccountCode          string
	EntryType            EntryType
	Amount               decimal.Decimal
	Label                string
	IncludeInTransaction bool
}
