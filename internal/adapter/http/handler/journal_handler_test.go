package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
)

type journalServiceStub struct {
	queryFn  func(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	reportFn func(ctx context.Context, filter domain.EntryFilter) (*domain.JournalReport, error)
	auditFn  func(ctx context.Context, transactionNumber string) (*domain.AuditTrail, error)
}

func (s *journalServiceStub) QueryEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	return s.queryFn(ctx, filter)
}

func (s *journalServiceStub) GenerateReport(ctx context.Context, filter domain.EntryFilter) (*domain.JournalReport, error) {
	return s.reportFn(ctx, filter)
}

func (s *journalServiceStub) AuditTrail(ctx context.Context, transactionNumber string) (*domain.AuditTrail, error) {
	return s.auditFn(ctx, transactionNumber)
}

type trialBalanceServiceStub struct {
	trialBalanceFn func(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}

func (s *trialBalanceServiceStub) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	return s.trialBalanceFn(ctx, asOf)
}

func TestJournalHandler_Entries_BuildsFilter(t *testing.T) {
	var captured domain.EntryFilter
	handler := NewJournalHandler(&journalServiceStub{
		queryFn: func(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
			captured = filter
			return nil, nil
		},
	}, nil)

	target := "/journal/entries?account_code=1010&posted_only=true&sort=desc&limit=25&offset=5&start=2020-01-01&end=2020-01-31"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	handler.Entries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountCode != "1010" || !captured.PostedOnly || !captured.SortDesc {
		t.Fatalf("unexpected filter: %+v", captured)
	}
	if captured.Limit != 25 || captured.Offset != 5 {
		t.Fatalf("unexpected pagination: %+v", captured)
	}
	if captured.StartDate == nil || captured.EndDate == nil {
		t.Fatalf("expected date bounds to be set: %+v", captured)
	}
	if got := captured.StartDate.Format("2006-01-02"); got != "2020-01-01" {
		t.Fatalf("unexpected start date %s", got)
	}
}

func TestJournalHandler_Entries_InvalidStartDate(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		queryFn: func(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
			t.Fatal("QueryEntries should not be called for an invalid date")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/journal/entries?start=yesterday", nil)
	rec := httptest.NewRecorder()

	handler.Entries(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestJournalHandler_Report(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		reportFn: func(ctx context.Context, filter domain.EntryFilter) (*domain.JournalReport, error) {
			return &domain.JournalReport{
				Entries: []*domain.LedgerEntry{
					{ID: "e1", AccountCode: "6010", EntryType: domain.Debit, Amount: decimal.RequireFromString("100.00")},
					{ID: "e2", AccountCode: "1010", EntryType: domain.Credit, Amount: decimal.RequireFromString("100.00")},
				},
				TotalDebits:  decimal.RequireFromString("100.00"),
				TotalCredits: decimal.RequireFromString("100.00"),
				IsBalanced:   true,
				GeneratedAt:  time.Now().UTC(),
			}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/journal/report", nil)
	rec := httptest.NewRecorder()

	handler.Report(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.JournalReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsBalanced || len(resp.Entries) != 2 {
		t.Fatalf("unexpected report: %+v", resp)
	}
}

func TestJournalHandler_AuditTrail_NotFound(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		auditFn: func(ctx context.Context, transactionNumber string) (*domain.AuditTrail, error) {
			return nil, domain.ErrTransactionNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/journal/audit/TX-9999", nil)
	req = setChiURLParam(req, "number", "TX-9999")
	rec := httptest.NewRecorder()

	handler.AuditTrail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestJournalHandler_TrialBalance(t *testing.T) {
	handler := NewJournalHandler(nil, &trialBalanceServiceStub{
		trialBalanceFn: func(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
			return &domain.TrialBalance{
				AsOf: asOf,
				Rows: []domain.TrialBalanceRow{
					{AccountCode: "1010", AccountName: "Cash", AccountType: domain.AccountTypeAsset, DebitBalance: decimal.RequireFromString("100.00")},
					{AccountCode: "4010", AccountName: "Sales", AccountType: domain.AccountTypeRevenue, CreditBalance: decimal.RequireFromString("100.00")},
				},
				TotalDebits:  decimal.RequireFromString("100.00"),
				TotalCredits: decimal.RequireFromString("100.00"),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/trial-balance?as_of=2020-01-31", nil)
	rec := httptest.NewRecorder()

	handler.TrialBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsBalanced || len(resp.Rows) != 2 || resp.AsOf != "2020-01-31" {
		t.Fatalf("unexpected trial balance: %+v", resp)
	}
}

func TestJournalHandler_TrialBalance_MissingDate(t *testing.T) {
	handler := NewJournalHandler(nil, &trialBalanceServiceStub{
		trialBalanceFn: func(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
			t.Fatal("TrialBalance should not be called without as_of")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/trial-balance", nil)
	rec := httptest.NewRecorder()

	handler.TrialBalance(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
