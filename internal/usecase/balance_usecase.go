package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// BalanceUseCase computes point-in-time balances, turnovers, and trial
// balances from posted ledger entries. All aggregation is over entries
// whose owning transaction is posted.
type BalanceUseCase struct {
	entryRepo   LedgerEntryRepository
	accountRepo AccountRepository
	cache       Cache
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil.
func NewBalanceUseCase(entryRepo LedgerEntryRepository, accountRepo AccountRepository, cache Cache, logger zerolog.Logger) *BalanceUseCase {
	return &BalanceUseCase{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		cache:       cache,
		logger:      logger,
	}
}

// WithMetrics enables report instrumentation.
func (uc *BalanceUseCase) WithMetrics(m *metrics.Metrics) *BalanceUseCase {
	uc.metrics = m
	return uc
}

// AccountBalance returns the debit/credit aggregates and signed balance for
// one account as of a date (inclusive). Positive balance means net debit.
func (uc *BalanceUseCase) AccountBalance(ctx context.Context, accountCode string, asOf time.Time) (*domain.AccountBalance, error) {
	if _, err := uc.accountRepo.GetByCode(ctx, accountCode); err != nil {
		return nil, err
	}

	end := domain.DateOnly(asOf)
	entries, err := uc.entryRepo.Query(ctx, domain.EntryFilter{
		AccountCode: accountCode,
		EndDate:     &end,
		PostedOnly:  true,
	})
	if err != nil {
		return nil, err
	}

	debits, credits := sumBySide(entries)

	return &domain.AccountBalance{
		AccountCode: accountCode,
		AsOf:        end,
		Debits:      debits,
		Credits:     credits,
		Balance:     debits.Sub(credits),
	}, nil
}

// BalanceAsOf returns the signed balance for one account as of a date.
func (uc *BalanceUseCase) BalanceAsOf(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	balance, err := uc.AccountBalance(ctx, accountCode, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Balance, nil
}

// OpeningBalance returns the balance at the end of the previous day.
func (uc *BalanceUseCase) OpeningBalance(ctx context.Context, accountCode string, date time.Time) (decimal.Decimal, error) {
	return uc.BalanceAsOf(ctx, accountCode, domain.DateOnly(date).AddDate(0, 0, -1))
}

// Turnover returns the gross debit and credit movement on an account over
// an inclusive date range. The sides are reported separately, never netted.
func (uc *BalanceUseCase) Turnover(ctx context.Context, accountCode string, start, end time.Time) (*domain.Turnover, error) {
	if _, err := uc.accountRepo.GetByCode(ctx, accountCode); err != nil {
		return nil, err
	}

	startDay := domain.DateOnly(start)
	endDay := domain.DateOnly(end)

	entries, err := uc.entryRepo.Query(ctx, domain.EntryFilter{
		AccountCode: accountCode,
		StartDate:   &startDay,
		EndDate:     &endDay,
		PostedOnly:  true,
	})
	if err != nil {
		return nil, err
	}

	debits, credits := sumBySide(entries)

	return &domain.Turnover{
		AccountCode:    accountCode,
		StartDate:      startDay,
		EndDate:        endDay,
		DebitTurnover:  debits,
		CreditTurnover: credits,
	}, nil
}

// TrialBalance computes per-account aggregates for every non-archived
// account as of a date. Each account's net lands in the debit or credit
// column by its sign; NetBalance is normalized by the account's natural
// side. Rows are sorted by account code.
func (uc *BalanceUseCase) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = domain.DateOnly(asOf)

	if cached := uc.cachedTrialBalance(ctx, asOf); cached != nil {
		return cached, nil
	}

	if uc.metrics != nil {
		start := time.Now()
		defer func() {
			uc.metrics.ReportsGenerated.WithLabelValues("trial_balance").Inc()
			uc.metrics.ReportDuration.WithLabelValues("trial_balance").Observe(time.Since(start).Seconds())
		}()
	}

	accounts, err := uc.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		AsOf:         asOf,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, account := range accounts {
		balance, err := uc.AccountBalance(ctx, account.Code, asOf)
		if err != nil {
			return nil, err
		}

		net := balance.Balance

		row := domain.TrialBalanceRow{
			AccountCode:   account.Code,
			AccountName:   account.Name,
			AccountType:   account.Type,
			DebitBalance:  decimal.Max(net, decimal.Zero),
			CreditBalance: decimal.Max(net.Neg(), decimal.Zero),
			NetBalance:    net,
		}

		if account.Type.NormalSide() == domain.Credit {
			row.NetBalance = net.Neg()
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalDebits = tb.TotalDebits.Add(row.DebitBalance)
		tb.TotalCredits = tb.TotalCredits.Add(row.CreditBalance)
	}

	sort.Slice(tb.Rows, func(i, j int) bool {
		return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode
	})

	uc.storeTrialBalance(ctx, asOf, tb)

	return tb, nil
}

func sumBySide(entries []*domain.LedgerEntry) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero

	for _, e := range entries {
		switch e.EntryType {
		case domain.Debit:
			debits = debits.Add(e.Amount)
		case domain.Credit:
			credits = credits.Add(e.Amount)
		}
	}

	return debits, credits
}

// trialBalanceKey embeds the ledger generation counter, so any post or
// unpost moves readers to a fresh key instead of requiring pattern deletes.
func (uc *BalanceUseCase) trialBalanceKey(ctx context.Context, asOf time.Time) (string, error) {
	gen, err := uc.cache.Get(ctx, ledgerGenerationKey)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("trialbalance:%s:%s", string(gen), asOf.Format("2006-01-02")), nil
}

func (uc *BalanceUseCase) cachedTrialBalance(ctx context.Context, asOf time.Time) *domain.TrialBalance {
	if uc.cache == nil {
		return nil
	}

	key, err := uc.trialBalanceKey(ctx, asOf)
	if err != nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil
	}

	var tb domain.TrialBalance
	if err := json.Unmarshal(data, &tb); err != nil {
		uc.logger.Debug().Err(err).Msg("discarding unreadable cached trial balance")
		return nil
	}

	return &tb
}

func (uc *BalanceUseCase) storeTrialBalance(ctx context.Context, asOf time.Time, tb *domain.TrialBalance) {
	if uc.cache == nil {
		return
	}

	key, err := uc.trialBalanceKey(ctx, asOf)
	if err != nil {
		return
	}

	data, err := json.Marshal(tb)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, key, data, ReportCacheTTL); err != nil {
		uc.logger.Debug().Err(err).Msg("failed to cache trial balance")
	}
}
