package usecase

import (
	"context"
	"time"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// JournalUseCase is the read side: filtered entry lists, journal reports
// with totals, and per-transaction audit trails. Pure reads, no mutation.
type JournalUseCase struct {
	entryRepo       LedgerEntryRepository
	transactionRepo TransactionRepository
	activity        ActivityRecorder
	metrics         *metrics.Metrics
}

// NewJournalUseCase creates a new JournalUseCase. activity may be nil;
// audit trails then omit the activity stream.
func NewJournalUseCase(entryRepo LedgerEntryRepository, transactionRepo TransactionRepository, activity ActivityRecorder) *JournalUseCase {
	return &JournalUseCase{
		entryRepo:       entryRepo,
		transactionRepo: transactionRepo,
		activity:        activity,
	}
}

// WithMetrics enables report instrumentation.
func (uc *JournalUseCase) WithMetrics(m *metrics.Metrics) *JournalUseCase {
	uc.metrics = m
	return uc
}

// QueryEntries lists ledger entries matching the filter.
func (uc *JournalUseCase) QueryEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return uc.entryRepo.Query(ctx, filter)
}

// GenerateReport wraps an entry query with aggregate totals.
func (uc *JournalUseCase) GenerateReport(ctx context.Context, filter domain.EntryFilter) (*domain.JournalReport, error) {
	if uc.metrics != nil {
		start := time.Now()
		defer func() {
			uc.metrics.ReportsGenerated.WithLabelValues("journal").Inc()
			uc.metrics.ReportDuration.WithLabelValues("journal").Observe(time.Since(start).Seconds())
		}()
	}

	entries, err := uc.QueryEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	debits, credits := sumBySide(entries)

	return &domain.JournalReport{
		Entries:      entries,
		TotalDebits:  debits,
		TotalCredits: credits,
		IsBalanced:   debits.Equal(credits),
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// AuditTrail reconstructs one transaction from the store: its entries,
// totals, balanced flag, affected accounts, and recorded activities.
func (uc *JournalUseCase) AuditTrail(ctx context.Context, transactionNumber string) (*domain.AuditTrail, error) {
	transaction, err := uc.transactionRepo.GetByNumber(ctx, transactionNumber)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.Query(ctx, domain.EntryFilter{
		TransactionNumber: transactionNumber,
		Limit:             1000,
	})
	if err != nil {
		return nil, err
	}

	debits, credits := sumBySide(entries)

	trail := &domain.AuditTrail{
		TransactionNumber: transactionNumber,
		TransactionDate:   transaction.TransactionDate,
		Description:       transaction.Description,
		IsPosted:          transaction.IsPosted,
		Entries:           entries,
		TotalDebits:       debits,
		TotalCredits:      credits,
		IsBalanced:        debits.Equal(credits),
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.AccountCode] {
			seen[e.AccountCode] = true
			trail.AccountCodes = append(trail.AccountCodes, e.AccountCode)
		}
	}

	if uc.activity != nil {
		activities, err := uc.activity.ListByTarget(ctx, transactionNumber)
		if err != nil {
			return nil, err
		}

		trail.Activities = activities
	}

	return trail, nil
}
