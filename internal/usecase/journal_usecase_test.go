package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/domain"
)

func TestJournalQueryEntriesFilters(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	tx := postOfficeSupplies(t, s)

	entries, err := s.journal.QueryEntries(ctx, domain.EntryFilter{AccountCode: "6010"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for 6010, got %d", len(entries))
	}

	if entries[0].EntryType != domain.Debit {
		t.Errorf("expected debit entry, got %s", entries[0].EntryType)
	}

	entries, err = s.journal.QueryEntries(ctx, domain.EntryFilter{TransactionNumber: tx.TransactionNumber})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for %s, got %d", tx.TransactionNumber, len(entries))
	}

	start := time.Date(2020, 1, 16, 0, 0, 0, 0, time.UTC)
	entries, err = s.journal.QueryEntries(ctx, domain.EntryFilter{StartDate: &start})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("expected no entries after the posting date, got %d", len(entries))
	}
}

func TestJournalQueryEntriesLimitNormalization(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	captured := domain.EntryFilter{}
	s.entryRepo.QueryFunc = func(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
		captured = filter
		return nil, nil
	}

	if _, err := s.journal.QueryEntries(ctx, domain.EntryFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Limit != 50 {
		t.Errorf("expected default limit 50, got %d", captured.Limit)
	}

	if _, err := s.journal.QueryEntries(ctx, domain.EntryFilter{Limit: 5000, Offset: -3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Limit != 1000 {
		t.Errorf("expected limit capped at 1000, got %d", captured.Limit)
	}

	if captured.Offset != 0 {
		t.Errorf("expected negative offset reset to 0, got %d", captured.Offset)
	}
}

func TestJournalGenerateReport(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	postOfficeSupplies(t, s)

	report, err := s.journal.GenerateReport(ctx, domain.EntryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Entries))
	}

	if !report.TotalDebits.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected total debits 100.00, got %s", report.TotalDebits)
	}

	if !report.TotalCredits.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected total credits 100.00, got %s", report.TotalCredits)
	}

	if !report.IsBalanced {
		t.Error("expected report to be balanced")
	}

	if report.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
}

func TestJournalGenerateReportOneSidedFilter(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	postOfficeSupplies(t, s)

	// A single-account view only sees one side of the transaction.
	report, err := s.journal.GenerateReport(ctx, domain.EntryFilter{AccountCode: "6010"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.IsBalanced {
		t.Error("expected one-sided report to be unbalanced")
	}

	if !report.TotalCredits.IsZero() {
		t.Errorf("expected zero credits, got %s", report.TotalCredits)
	}
}

func TestJournalAuditTrail(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	tx := postOfficeSupplies(t, s)

	if err := s.posting.UnPost(ctx, tx); err != nil {
		t.Fatalf("unpost: %v", err)
	}

	if err := s.posting.Post(ctx, tx); err != nil {
		t.Fatalf("re-post: %v", err)
	}

	trail, err := s.journal.AuditTrail(ctx, tx.TransactionNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trail.TransactionNumber != tx.TransactionNumber {
		t.Errorf("expected number %s, got %s", tx.TransactionNumber, trail.TransactionNumber)
	}

	if !trail.IsPosted {
		t.Error("expected trail to reflect posted state")
	}

	if !trail.IsBalanced {
		t.Error("expected trail totals to balance")
	}

	if len(trail.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(trail.Entries))
	}

	if len(trail.AccountCodes) != 2 {
		t.Errorf("expected 2 distinct account codes, got %v", trail.AccountCodes)
	}

	wantVerbs := []string{domain.VerbPosted, domain.VerbUnPosted, domain.VerbPosted}
	if len(trail.Activities) != len(wantVerbs) {
		t.Fatalf("expected %d activities, got %d", len(wantVerbs), len(trail.Activities))
	}

	for i, verb := range wantVerbs {
		if trail.Activities[i].Verb != verb {
			t.Errorf("activity %d: expected verb %s, got %s", i, verb, trail.Activities[i].Verb)
		}
	}
}

func TestJournalAuditTrailUnknownNumber(t *testing.T) {
	s := newStack(t)

	if _, err := s.journal.AuditTrail(context.Background(), "TX-0000"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
