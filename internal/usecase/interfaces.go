package usecase

import (
	"context"
	"time"

	"github.com/finbooks/erpledger/internal/domain"
)

// TransactionRepository defines data access for transactions. Save upserts
// the header (number, posted flag, timestamps) keyed by ID, so posting a
// transaction built outside this process still lands in the store.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, transaction *domain.Transaction) error
	Save(ctx context.Context, tx Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByNumber(ctx context.Context, number string) (*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
}

// LedgerEntryRepository defines data access for ledger entries. CreateBatch
// must tolerate re-posting: entries already stored under the same ID are
// left untouched.
type LedgerEntryRepository interface {
	CreateBatch(ctx context.Context, tx Tx, entries []*domain.LedgerEntry) error
	Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	ListActive(ctx context.Context) ([]*domain.Account, error)
}

// FiscalPeriodRepository defines data access for fiscal periods.
type FiscalPeriodRepository interface {
	Create(ctx context.Context, period *domain.FiscalPeriod) error
	GetByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error)
	GetForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
	ListByStatus(ctx context.Context, status domain.PeriodStatus) ([]*domain.FiscalPeriod, error)
	UpdateStatus(ctx context.Context, code string, status domain.PeriodStatus, actor string, updatedAt time.Time) error
}

// SequenceRepository defines data access for named sequences. Increment
// advances the counter by one and returns the advanced row; the store-level
// increment must be atomic.
type SequenceRepository interface {
	Create(ctx context.Context, sequence *domain.Sequence) error
	GetByCode(ctx context.Context, code string) (*domain.Sequence, error)
	Increment(ctx context.Context, code string) (*domain.Sequence, error)
}

// ActivityRecorder is the fire-and-forget audit sink.
type ActivityRecorder interface {
	Record(ctx context.Context, activity *domain.Activity) error
	ListByTarget(ctx context.Context, target string) ([]*domain.Activity, error)
}

// Tx represents a store transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles store transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique opaque IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-side reports.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr atomically increments a counter key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
