package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/usecase"
)

// dateLayout is the wire format for business dates. Times of day carry
// no meaning in the ledger.
const dateLayout = "2006-01-02"

// ParseDate parses a business date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}

	return t, nil
}

// FormatDate formats a business date in YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// CreateAccountRequest represents a request to register an account.
type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ToDomain converts to a domain account.
func (r *CreateAccountRequest) ToDomain() *domain.Account {
	return &domain.Account{
		Code: r.Code,
		Name: r.Name,
		Type: domain.AccountType(r.Type),
	}
}

// DocumentTotalItem represents one document total line.
type DocumentTotalItem struct {
	AccountCode string          `json:"account_code"`
	EntryType   string          `json:"entry_type"`
	Amount      decimal.Decimal `json:"amount"`
	Label       string          `json:"label,omitempty"`
	Include     bool            `json:"include"`
}

// CreateTransactionRequest represents a request to translate a business
// document into an unposted transaction.
type CreateTransactionRequest struct {
	DocumentNumber string              `json:"document_number"`
	Date           string              `json:"date"`
	Description    string              `json:"description,omitempty"`
	Totals         []DocumentTotalItem `json:"totals"`
}

// ToDocument converts to a domain document.
func (r *CreateTransactionRequest) ToDocument() (domain.Document, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		Number:      r.DocumentNumber,
		Date:        date,
		Description: r.Description,
	}

	for _, t := range r.Totals {
		doc.Totals = append(doc.Totals, domain.DocumentTotal{
			AccountCode:          t.AccountCode,
			EntryType:            domain.EntryType(t.EntryType),
			Amount:               t.Amount,
			Label:                t.Label,
			IncludeInTransaction: t.Include,
		})
	}

	return doc, nil
}

// CreatePeriodRequest represents a request to register a fiscal period.
type CreatePeriodRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ToInput converts to use case input.
func (r *CreatePeriodRequest) ToInput() (usecase.CreatePeriodInput, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return usecase.CreatePeriodInput{}, err
	}

	end, err := ParseDate(r.EndDate)
	if err != nil {
		return usecase.CreatePeriodInput{}, err
	}

	return usecase.CreatePeriodInput{
		Code:      r.Code,
		Name:      r.Name,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// PeriodActionRequest names the actor behind an open or close.
type PeriodActionRequest struct {
	Actor string `json:"actor"`
}

// CreateSequenceRequest represents a request to register a counter.
type CreateSequenceRequest struct {
	Code    string `json:"code"`
	Initial int64  `json:"initial"`
	Prefix  string `json:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty"`
}

// ToInput converts to use case input.
func (r *CreateSequenceRequest) ToInput() usecase.CreateSequenceInput {
	return usecase.CreateSequenceInput{
		Code:    r.Code,
		Initial: r.Initial,
		Prefix:  r.Prefix,
		Suffix:  r.Suffix,
	}
}
