package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		Archived:  a.Archived,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID                string          `json:"id"`
	TransactionID     string          `json:"transaction_id"`
	LedgerEntryNumber string          `json:"ledger_entry_number,omitempty"`
	TransactionNumber string          `json:"transaction_number,omitempty"`
	AccountCode       string          `json:"account_code"`
	EntryType         string          `json:"entry_type"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:                e.ID,
		TransactionID:     e.TransactionID,
		LedgerEntryNumber: e.LedgerEntryNumber,
		TransactionNumber: e.TransactionNumber,
		AccountCode:       e.AccountCode,
		EntryType:         string(e.EntryType),
		Amount:            e.Amount,
		Description:       e.Description,
		CreatedAt:         e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                string           `json:"id"`
	TransactionNumber string           `json:"transaction_number,omitempty"`
	TransactionDate   string           `json:"transaction_date"`
	Description       string           `json:"description,omitempty"`
	DocumentNumber    string           `json:"document_number,omitempty"`
	IsPosted          bool             `json:"is_posted"`
	Entries           []*EntryResponse `json:"entries"`
	TotalDebits       decimal.Decimal  `json:"total_debits"`
	TotalCredits      decimal.Decimal  `json:"total_credits"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		TransactionNumber: t.TransactionNumber,
		TransactionDate:   FormatDate(t.TransactionDate),
		Description:       t.Description,
		DocumentNumber:    t.DocumentNumber,
		IsPosted:          t.IsPosted,
		Entries:           EntriesFromDomain(t.Entries),
		TotalDebits:       t.TotalDebits(),
		TotalCredits:      t.TotalCredits(),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// PeriodResponse represents a fiscal period in API responses.
type PeriodResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name,omitempty"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PeriodFromDomain converts a domain period to a response.
func PeriodFromDomain(p *domain.FiscalPeriod) *PeriodResponse {
	return &PeriodResponse{
		Code:      p.Code,
		Name:      p.Name,
		StartDate: FormatDate(p.StartDate),
		EndDate:   FormatDate(p.EndDate),
		Status:    string(p.Status),
		UpdatedBy: p.UpdatedBy,
		UpdatedAt: p.UpdatedAt,
	}
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.FiscalPeriod) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// SequenceResponse represents a counter in API responses.
type SequenceResponse struct {
	Code          string `json:"code"`
	CurrentNumber int64  `json:"current_number"`
	Prefix        string `json:"prefix,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
}

// SequenceFromDomain converts a domain sequence to a response.
func SequenceFromDomain(s *domain.Sequence) *SequenceResponse {
	return &SequenceResponse{
		Code:          s.Code,
		CurrentNumber: s.CurrentNumber,
		Prefix:        s.Prefix,
		Suffix:        s.Suffix,
	}
}

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	AccountCode string          `json:"account_code"`
	AsOf        string          `json:"as_of"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.AccountBalance) *BalanceResponse {
	return &BalanceResponse{
		AccountCode: b.AccountCode,
		AsOf:        FormatDate(b.AsOf),
		Debits:      b.Debits,
		Credits:     b.Credits,
		Balance:     b.Balance,
	}
}

// TurnoverResponse represents account turnover in API responses.
type TurnoverResponse struct {
	AccountCode    string          `json:"account_code"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	DebitTurnover  decimal.Decimal `json:"debit_turnover"`
	CreditTurnover decimal.Decimal `json:"credit_turnover"`
}

// TurnoverFromDomain converts a domain turnover to a response.
func TurnoverFromDomain(t *domain.Turnover) *TurnoverResponse {
	return &TurnoverResponse{
		AccountCode:    t.AccountCode,
		StartDate:      FormatDate(t.StartDate),
		EndDate:        FormatDate(t.EndDate),
		DebitTurnover:  t.DebitTurnover,
		CreditTurnover: t.CreditTurnover,
	}
}

// TrialBalanceRowResponse represents one trial balance row.
type TrialBalanceRowResponse struct {
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	AccountType   string          `json:"account_type"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

// TrialBalanceResponse represents a trial balance in API responses.
type TrialBalanceResponse struct {
	AsOf         string                    `json:"as_of"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  decimal.Decimal           `json:"total_debits"`
	TotalCredits decimal.Decimal           `json:"total_credits"`
	IsBalanced   bool                      `json:"is_balanced"`
}

// TrialBalanceFromDomain converts a domain trial balance to a response.
func TrialBalanceFromDomain(tb *domain.TrialBalance) *TrialBalanceResponse {
	resp := &TrialBalanceResponse{
		AsOf:         FormatDate(tb.AsOf),
		TotalDebits:  tb.TotalDebits,
		TotalCredits: tb.TotalCredits,
		IsBalanced:   tb.IsBalanced(),
	}

	for _, row := range tb.Rows {
		resp.Rows = append(resp.Rows, TrialBalanceRowResponse{
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			AccountType:   string(row.AccountType),
			DebitBalance:  row.DebitBalance,
			CreditBalance: row.CreditBalance,
			NetBalance:    row.NetBalance,
		})
	}

	return resp
}

// JournalReportResponse represents a journal report in API responses.
type JournalReportResponse struct {
	Entries      []*EntryResponse `json:"entries"`
	TotalDebits  decimal.Decimal  `json:"total_debits"`
	TotalCredits decimal.Decimal  `json:"total_credits"`
	IsBalanced   bool             `json:"is_balanced"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// JournalReportFromDomain converts a domain journal report to a response.
func JournalReportFromDomain(r *domain.JournalReport) *JournalReportResponse {
	return &JournalReportResponse{
		Entries:      EntriesFromDomain(r.Entries),
		TotalDebits:  r.TotalDebits,
		TotalCredits: r.TotalCredits,
		IsBalanced:   r.IsBalanced,
		GeneratedAt:  r.GeneratedAt,
	}
}

// ActivityResponse represents a recorded activity in API responses.
type ActivityResponse struct {
	Actor      string    `json:"actor"`
	Verb       string    `json:"verb"`
	Target     string    `json:"target"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditTrailResponse represents a transaction audit trail.
type AuditTrailResponse struct {
	TransactionNumber string             `json:"transaction_number"`
	TransactionDate   string             `json:"transaction_date"`
	Description       string             `json:"description,omitempty"`
	IsPosted          bool               `json:"is_posted"`
	Entries           []*EntryResponse   `json:"entries"`
	TotalDebits       decimal.Decimal    `json:"total_debits"`
	TotalCredits      decimal.Decimal    `json:"total_credits"`
	IsBalanced        bool               `json:"is_balanced"`
	AccountCodes      []string           `json:"account_codes"`
	Activities        []ActivityResponse `json:"activities"`
}

// AuditTrailFromDomain converts a domain audit trail to a response.
func AuditTrailFromDomain(t *domain.AuditTrail) *AuditTrailResponse {
	resp := &AuditTrailResponse{
		TransactionNumber: t.TransactionNumber,
		TransactionDate:   FormatDate(t.TransactionDate),
		Description:       t.Description,
		IsPosted:          t.IsPosted,
		Entries:           EntriesFromDomain(t.Entries),
		TotalDebits:       t.TotalDebits,
		TotalCredits:      t.TotalCredits,
		IsBalanced:        t.IsBalanced,
		AccountCodes:      t.AccountCodes,
	}

	for _, a := range t.Activities {
		resp.Activities = append(resp.Activities, ActivityResponse{
			Actor:      a.Actor,
			Verb:       a.Verb,
			Target:     a.Target,
			OccurredAt: a.OccurredAt,
		})
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
