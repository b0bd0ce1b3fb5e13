package usecase_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// newDomainMetrics builds an unregistered metric set so tests do not
// collide on the default registry.
func newDomainMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		TransactionsPosted:   prometheus.NewCounter(prometheus.CounterOpts{Name: "tx_posted"}),
		TransactionsUnPosted: prometheus.NewCounter(prometheus.CounterOpts{Name: "tx_unposted"}),
		PostingDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Name: "posting_duration"}),
		PostingErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "posting_errors"}, []string{"error_type"}),
		EntriesAppended:      prometheus.NewCounter(prometheus.CounterOpts{Name: "entries_appended"}),
		EntryAmount:          prometheus.NewHistogram(prometheus.HistogramOpts{Name: "entry_amount"}),
		PeriodsClosed:        prometheus.NewCounter(prometheus.CounterOpts{Name: "periods_closed"}),
		PeriodsOpened:        prometheus.NewCounter(prometheus.CounterOpts{Name: "periods_opened"}),
		SequenceNumbersIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sequence_numbers_issued"}, []string{"sequence"}),
		ReportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "reports_generated"}, []string{"report"}),
		ReportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "report_duration"}, []string{"report"}),
	}
}

func TestPostingRecordsMetrics(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	m := newDomainMetrics()
	s.posting.WithMetrics(m)
	s.sequencer.WithMetrics(m)

	tx := officeSuppliesTx("t1")
	if err := s.posting.Post(ctx, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.TransactionsPosted); got != 1 {
		t.Errorf("expected 1 posted transaction, got %v", got)
	}

	if got := testutil.ToFloat64(m.EntriesAppended); got != 2 {
		t.Errorf("expected 2 appended entries, got %v", got)
	}

	if got := testutil.ToFloat64(m.SequenceNumbersIssued.WithLabelValues("transactions")); got != 1 {
		t.Errorf("expected 1 transaction number issued, got %v", got)
	}

	if err := s.posting.UnPost(ctx, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.TransactionsUnPosted); got != 1 {
		t.Errorf("expected 1 unposted transaction, got %v", got)
	}
}

func TestPostingRecordsErrorsByType(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	m := newDomainMetrics()
	s.posting.WithMetrics(m)

	if err := s.periods.Close(ctx, "Jan-2020", "controller"); err != nil {
		t.Fatalf("close period: %v", err)
	}

	if err := s.posting.Post(ctx, officeSuppliesTx("t1")); err == nil {
		t.Fatal("expected closed period error")
	}

	if got := testutil.ToFloat64(m.PostingErrors.WithLabelValues("closed_period")); got != 1 {
		t.Errorf("expected 1 closed_period error, got %v", got)
	}

	if got := testutil.ToFloat64(m.TransactionsPosted); got != 0 {
		t.Errorf("expected no posted transactions, got %v", got)
	}
}

func TestPeriodLifecycleRecordsMetrics(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	m := newDomainMetrics()
	s.periods.WithMetrics(m)

	if err := s.periods.Close(ctx, "Jan-2020", "controller"); err != nil {
		t.Fatalf("close period: %v", err)
	}

	if err := s.periods.Open(ctx, "Jan-2020", "controller"); err != nil {
		t.Fatalf("open period: %v", err)
	}

	if got := testutil.ToFloat64(m.PeriodsClosed); got != 1 {
		t.Errorf("expected 1 close, got %v", got)
	}

	if got := testutil.ToFloat64(m.PeriodsOpened); got != 1 {
		t.Errorf("expected 1 open, got %v", got)
	}
}

func TestTrialBalanceRecordsReportMetrics(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	m := newDomainMetrics()
	s.balances.WithMetrics(m)

	if _, err := s.balances.TrialBalance(ctx, officeSuppliesTx("t1").TransactionDate); err != nil {
		t.Fatalf("trial balance: %v", err)
	}

	if got := testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("trial_balance")); got != 1 {
		t.Errorf("expected 1 trial balance report, got %v", got)
	}
}
