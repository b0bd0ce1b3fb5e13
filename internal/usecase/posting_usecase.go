package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/keymutex"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// PostingUseCase is the transaction posting state machine: it validates,
// numbers, and commits or reverts transactions against the ledger store,
// gated by the fiscal period registry.
//
// Numbers assigned at post time are permanent. UnPost keeps them and a
// later re-Post reuses them; sequence counters never move backwards.
type PostingUseCase struct {
	txManager       TxManager
	transactionRepo TransactionRepository
	entryRepo       LedgerEntryRepository
	periodRepo      FiscalPeriodRepository
	sequencer       *SequencerUseCase
	activity        ActivityRecorder
	idGen           IDGenerator
	cache           Cache
	locks           *keymutex.KeyMutex
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase. activity and cache may be
// nil; the engine then skips audit records and cache invalidation.
func NewPostingUseCase(
	txManager TxManager,
	transactionRepo TransactionRepository,
	entryRepo LedgerEntryRepository,
	periodRepo FiscalPeriodRepository,
	sequencer *SequencerUseCase,
	activity ActivityRecorder,
	idGen IDGenerator,
	cache Cache,
	locks *keymutex.KeyMutex,
	logger zerolog.Logger,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		entryRepo:       entryRepo,
		periodRepo:      periodRepo,
		sequencer:       sequencer,
		activity:        activity,
		idGen:           idGen,
		cache:           cache,
		locks:           locks,
		logger:          logger,
	}
}

// WithMetrics enables posting instrumentation. A nil receiver-side
// metrics set keeps the engine silent.
func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	return uc
}

// CreateFromDocument translates a business document into an unposted
// transaction. Only totals flagged IncludeInTransaction become entries.
func (uc *PostingUseCase) CreateFromDocument(ctx context.Context, doc domain.Document, description string) (*domain.Transaction, error) {
	if description == "" {
		description = doc.Description
	}

	now := time.Now().UTC()
	transaction := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		TransactionDate: domain.DateOnly(doc.Date),
		Description:     description,
		DocumentNumber:  doc.Number,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, total := range doc.Totals {
		if !total.IncludeInTransaction {
			continue
		}

		label := total.Label
		if label == "" {
			label = description
		}

		transaction.Entries = append(transaction.Entries, &domain.LedgerEntry{
			ID:            uc.idGen.Generate(),
			TransactionID: transaction.ID,
			AccountCode:   total.AccountCode,
			EntryType:     total.EntryType,
			Amount:        total.Amount,
			Description:   label,
			CreatedAt:     now,
		})
	}

	if len(transaction.Entries) == 0 {
		return nil, domain.ErrNoEntries
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.transactionRepo.Create(ctx, tx, transaction); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transaction, nil
}

// Validate is the pure balance check: no numbering, no store access.
func (uc *PostingUseCase) Validate(transaction *domain.Transaction) error {
	return transaction.Validate()
}

// Post commits a transaction to the ledger. Posting an already-posted
// transaction is a successful no-op. Validation and the period gate run
// before any numbering, so a failed post leaves the transaction and the
// store untouched.
func (uc *PostingUseCase) Post(ctx context.Context, transaction *domain.Transaction) error {
	if transaction.IsPosted {
		return nil
	}

	start := time.Now()
	err := uc.post(ctx, transaction)
	uc.observePost(err, transaction, time.Since(start))

	return err
}

func (uc *PostingUseCase) post(ctx context.Context, transaction *domain.Transaction) error {
	period, err := uc.periodRepo.GetForDate(ctx, transaction.TransactionDate)
	if err != nil {
		return err
	}

	// The period lock is shared with FiscalPeriodUseCase.Close, so the
	// open-check and the commit below are atomic with respect to closes.
	unlock := uc.locks.Lock("period:" + period.Code)
	defer unlock()

	period, err = uc.periodRepo.GetByCode(ctx, period.Code)
	if err != nil {
		return err
	}

	if !period.IsOpen() {
		return fmt.Errorf("%w: %s", domain.ErrClosedPeriod, period.Code)
	}

	if err := transaction.Validate(); err != nil {
		return err
	}

	if err := uc.assignNumbers(ctx, transaction); err != nil {
		return err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.CreateBatch(ctx, tx, transaction.Entries); err != nil {
		return err
	}

	transaction.IsPosted = true
	transaction.UpdatedAt = now

	if err := uc.transactionRepo.Save(ctx, tx, transaction); err != nil {
		transaction.IsPosted = false
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		transaction.IsPosted = false
		return err
	}

	uc.recordActivity(ctx, domain.VerbPosted, transaction.TransactionNumber, now)
	uc.bumpGeneration(ctx)

	return nil
}

// UnPost reverts a posted transaction while its fiscal period is still
// open. Previously assigned numbers are retained for audit continuity.
func (uc *PostingUseCase) UnPost(ctx context.Context, transaction *domain.Transaction) error {
	if !transaction.IsPosted {
		return nil
	}

	period, err := uc.periodRepo.GetForDate(ctx, transaction.TransactionDate)
	if err != nil {
		return err
	}

	unlock := uc.locks.Lock("period:" + period.Code)
	defer unlock()

	period, err = uc.periodRepo.GetByCode(ctx, period.Code)
	if err != nil {
		return err
	}

	if !period.IsOpen() {
		return fmt.Errorf("%w: %s", domain.ErrClosedPeriod, period.Code)
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	transaction.IsPosted = false
	transaction.UpdatedAt = now

	if err := uc.transactionRepo.Save(ctx, tx, transaction); err != nil {
		transaction.IsPosted = true
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		transaction.IsPosted = true
		return err
	}

	uc.recordActivity(ctx, domain.VerbUnPosted, transaction.TransactionNumber, now)
	uc.bumpGeneration(ctx)

	if uc.metrics != nil {
		uc.metrics.TransactionsUnPosted.Inc()
	}

	return nil
}

func (uc *PostingUseCase) observePost(err error, transaction *domain.Transaction, elapsed time.Duration) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.PostingDuration.Observe(elapsed.Seconds())

	if err != nil {
		uc.metrics.PostingErrors.WithLabelValues(postingErrorType(err)).Inc()
		return
	}

	uc.metrics.TransactionsPosted.Inc()
	uc.metrics.EntriesAppended.Add(float64(len(transaction.Entries)))

	for _, entry := range transaction.Entries {
		uc.metrics.EntryAmount.Observe(entry.Amount.InexactFloat64())
	}
}

func postingErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrClosedPeriod):
		return "closed_period"
	case errors.Is(err, domain.ErrPeriodNotFound):
		return "no_period"
	case errors.Is(err, domain.ErrUnbalancedTransaction),
		errors.Is(err, domain.ErrNoEntries),
		errors.Is(err, domain.ErrMissingAccountCode),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrInvalidEntryType):
		return "validation"
	default:
		return "storage"
	}
}

// GetTransaction retrieves a transaction with its entries by ID.
func (uc *PostingUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// GetTransactionByNumber retrieves a transaction by its posted number.
func (uc *PostingUseCase) GetTransactionByNumber(ctx context.Context, number string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByNumber(ctx, number)
}

// ListTransactions lists transaction headers, newest first.
func (uc *PostingUseCase) ListTransactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	if offset < 0 {
		offset = 0
	}

	return uc.transactionRepo.List(ctx, limit, offset)
}

// assignNumbers stamps the transaction number and every unnumbered entry.
// Runs only after validation has passed.
func (uc *PostingUseCase) assignNumbers(ctx context.Context, transaction *domain.Transaction) error {
	if transaction.TransactionNumber == "" {
		number, err := uc.sequencer.GetNextNumber(ctx, SeqTransactions)
		if err != nil {
			return err
		}

		transaction.TransactionNumber = number
	}

	for _, entry := range transaction.Entries {
		if entry.LedgerEntryNumber == "" {
			number, err := uc.sequencer.GetNextNumber(ctx, SeqLedgerEntries)
			if err != nil {
				return err
			}

			entry.LedgerEntryNumber = number
		}

		entry.TransactionNumber = transaction.TransactionNumber
	}

	return nil
}

func (uc *PostingUseCase) recordActivity(ctx context.Context, verb, target string, at time.Time) {
	if uc.activity == nil {
		return
	}

	err := uc.activity.Record(ctx, &domain.Activity{
		ID:         uc.idGen.Generate(),
		Actor:      domain.SystemActor,
		Verb:       verb,
		Target:     target,
		OccurredAt: at,
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("verb", verb).Str("target", target).Msg("failed to record activity")
	}
}

func (uc *PostingUseCase) bumpGeneration(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if _, err := uc.cache.Incr(ctx, ledgerGenerationKey); err != nil {
		uc.logger.Debug().Err(err).Msg("failed to bump ledger generation")
	}
}
