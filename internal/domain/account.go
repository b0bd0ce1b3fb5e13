package domain

import "time"

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// normalSides is the static registry of natural sides per account type.
var normalSides = map[AccountType]EntryType{
	AccountTypeAsset:     Debit,
	AccountTypeExpense:   Debit,
	AccountTypeLiability: Credit,
	AccountTypeEquity:    Credit,
	AccountTypeRevenue:   Credit,
}

// Valid reports whether the account type is known.
func (t AccountType) Valid() bool {
	_, ok := normalSides[t]
	return ok
}

// NormalSide returns the side on which increases to this account type are
// recorded. Unknown types default to debit-normal.
func (t AccountType) NormalSide() EntryType {
	if side, ok := normalSides[t]; ok {
		return side
	}

	return Debit
}

// Account is one row of the chart of accounts. Archived accounts are
// excluded from trial balance reporting but keep their history.
type Account struct {
	Code      string
	Name      string
	Type      AccountType
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
