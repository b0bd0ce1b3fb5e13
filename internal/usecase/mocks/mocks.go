package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/usecase"
)

// MockTransactionRepository is an in-memory mock of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc      func(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error
	SaveFunc        func(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByNumberFunc func(ctx context.Context, number string) (*domain.Transaction, error)
	ListFunc        func(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transaction)
	}

	return m.store(transaction)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx usecase.Tx, transaction *domain.Transaction) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, transaction)
	}

	return m.store(transaction)
}

func (m *MockTransactionRepository) store(transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := *transaction
	entries := make([]*domain.LedgerEntry, len(transaction.Entries))
	for i, e := range transaction.Entries {
		copied := *e
		entries[i] = &copied
	}
	snapshot.Entries = entries

	m.transactions[transaction.ID] = &snapshot

	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.transactions[id]; ok {
		return t, nil
	}

	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByNumber(ctx context.Context, number string) (*domain.Transaction, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.transactions {
		if t.TransactionNumber == number && number != "" {
			return t, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range m.transactions {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return paginate(result, limit, offset), nil
}

// Count returns the number of stored transactions.
func (m *MockTransactionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.transactions)
}

// MockLedgerEntryRepository is an in-memory mock of LedgerEntryRepository.
// When linked to a MockTransactionRepository it resolves owning-transaction
// dates and posted flags for filtering, mirroring the SQL join the real
// repository performs.
type MockLedgerEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
	txRepo  *MockTransactionRepository

	CreateBatchFunc func(ctx context.Context, tx usecase.Tx, entries []*domain.LedgerEntry) error
	QueryFunc       func(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

func NewMockLedgerEntryRepository(txRepo *MockTransactionRepository) *MockLedgerEntryRepository {
	return &MockLedgerEntryRepository{txRepo: txRepo}
}

func (m *MockLedgerEntryRepository) CreateBatch(ctx context.Context, tx usecase.Tx, entries []*domain.LedgerEntry) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, entries)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if m.contains(e.ID) {
			continue
		}

		copied := *e
		m.entries = append(m.entries, &copied)
	}

	return nil
}

func (m *MockLedgerEntryRepository) contains(id string) bool {
	for _, e := range m.entries {
		if e.ID == id {
			return true
		}
	}

	return false
}

func (m *MockLedgerEntryRepository) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, filter)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.LedgerEntry
	for _, e := range m.entries {
		if filter.AccountCode != "" && e.AccountCode != filter.AccountCode {
			continue
		}

		if filter.TransactionNumber != "" && e.TransactionNumber != filter.TransactionNumber {
			continue
		}

		if !m.matchesTransaction(e, filter) {
			continue
		}

		result = append(result, e)
	}

	if filter.SortDesc {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}

	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m *MockLedgerEntryRepository) matchesTransaction(e *domain.LedgerEntry, filter domain.EntryFilter) bool {
	if m.txRepo == nil {
		return true
	}

	owner, err := m.txRepo.GetByID(context.Background(), e.TransactionID)
	if err != nil {
		return false
	}

	if filter.PostedOnly && !owner.IsPosted {
		return false
	}

	date := domain.DateOnly(owner.TransactionDate)
	if filter.StartDate != nil && date.Before(domain.DateOnly(*filter.StartDate)) {
		return false
	}

	if filter.EndDate != nil && date.After(domain.DateOnly(*filter.EndDate)) {
		return false
	}

	return true
}

// Count returns the number of stored entries.
func (m *MockLedgerEntryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// MockAccountRepository is an in-memory mock of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByCodeFunc  func(ctx context.Context, code string) (*domain.Account, error)
	ListActiveFunc func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.Code]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, account.Code)
	}

	m.accounts[account.Code] = account

	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if a, ok := m.accounts[code]; ok {
		return a, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, code)
}

func (m *MockAccountRepository) ListActive(ctx context.Context) ([]*domain.Account, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Account
	for _, a := range m.accounts {
		if !a.Archived {
			result = append(result, a)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })

	return result, nil
}

// MockFiscalPeriodRepository is an in-memory mock of FiscalPeriodRepository.
type MockFiscalPeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]*domain.FiscalPeriod

	CreateFunc       func(ctx context.Context, period *domain.FiscalPeriod) error
	GetByCodeFunc    func(ctx context.Context, code string) (*domain.FiscalPeriod, error)
	GetForDateFunc   func(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
	ListByStatusFunc func(ctx context.Context, status domain.PeriodStatus) ([]*domain.FiscalPeriod, error)
	UpdateStatusFunc func(ctx context.Context, code string, status domain.PeriodStatus, actor string, updatedAt time.Time) error
}

func NewMockFiscalPeriodRepository() *MockFiscalPeriodRepository {
	return &MockFiscalPeriodRepository{
		periods: make(map[string]*domain.FiscalPeriod),
	}
}

func (m *MockFiscalPeriodRepository) Create(ctx context.Context, period *domain.FiscalPeriod) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, period)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.periods[period.Code]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, period.Code)
	}

	m.periods[period.Code] = period

	return nil
}

func (m *MockFiscalPeriodRepository) GetByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.periods[code]; ok {
		return p, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, code)
}

func (m *MockFiscalPeriodRepository) GetForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	if m.GetForDateFunc != nil {
		return m.GetForDateFunc(ctx, date)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.periods {
		if p.Covers(date) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, date.Format("2006-01-02"))
}

func (m *MockFiscalPeriodRepository) ListByStatus(ctx context.Context, status domain.PeriodStatus) ([]*domain.FiscalPeriod, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.FiscalPeriod
	for _, p := range m.periods {
		if p.Status == status {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })

	return result, nil
}

func (m *MockFiscalPeriodRepository) UpdateStatus(ctx context.Context, code string, status domain.PeriodStatus, actor string, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, code, status, actor, updatedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.periods[code]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, code)
	}

	p.Status = status
	p.UpdatedBy = actor
	p.UpdatedAt = updatedAt

	return nil
}

// MockSequenceRepository is an in-memory mock of SequenceRepository with an
// atomic Increment.
type MockSequenceRepository struct {
	mu        sync.Mutex
	sequences map[string]*domain.Sequence

	CreateFunc    func(ctx context.Context, sequence *domain.Sequence) error
	GetByCodeFunc func(ctx context.Context, code string) (*domain.Sequence, error)
	IncrementFunc func(ctx context.Context, code string) (*domain.Sequence, error)
}

func NewMockSequenceRepository() *MockSequenceRepository {
	return &MockSequenceRepository{
		sequences: make(map[string]*domain.Sequence),
	}
}

func (m *MockSequenceRepository) Create(ctx context.Context, sequence *domain.Sequence) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sequence)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sequences[sequence.Code]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, sequence.Code)
	}

	copied := *sequence
	m.sequences[sequence.Code] = &copied

	return nil
}

func (m *MockSequenceRepository) GetByCode(ctx context.Context, code string) (*domain.Sequence, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sequences[code]; ok {
		copied := *s
		return &copied, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrSequenceNotFound, code)
}

func (m *MockSequenceRepository) Increment(ctx context.Context, code string) (*domain.Sequence, error) {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, code)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sequences[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSequenceNotFound, code)
	}

	s.CurrentNumber++
	s.UpdatedAt = time.Now().UTC()

	copied := *s

	return &copied, nil
}

// MockActivityRecorder is an in-memory mock of ActivityRecorder.
type MockActivityRecorder struct {
	mu         sync.RWMutex
	activities []*domain.Activity

	RecordFunc       func(ctx context.Context, activity *domain.Activity) error
	ListByTargetFunc func(ctx context.Context, target string) ([]*domain.Activity, error)
}

func NewMockActivityRecorder() *MockActivityRecorder {
	return &MockActivityRecorder{}
}

func (m *MockActivityRecorder) Record(ctx context.Context, activity *domain.Activity) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, activity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.activities = append(m.activities, activity)

	return nil
}

func (m *MockActivityRecorder) ListByTarget(ctx context.Context, target string) ([]*domain.Activity, error) {
	if m.ListByTargetFunc != nil {
		return m.ListByTargetFunc(ctx, target)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Activity
	for _, a := range m.activities {
		if a.Target == target {
			result = append(result, a)
		}
	}

	return result, nil
}

// All returns every recorded activity.
func (m *MockActivityRecorder) All() []*domain.Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]*domain.Activity(nil), m.activities...)
}

// MockTxManager is a mock of TxManager handing out no-op transactions.
type MockTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Tx, error)

	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	return &mockTx{manager: m}, nil
}

type mockTx struct {
	manager *MockTxManager
	done    bool
}

func (t *mockTx) Commit(ctx context.Context) error {
	t.manager.mu.Lock()
	defer t.manager.mu.Unlock()

	t.done = true
	t.manager.Commits++

	return nil
}

func (t *mockTx) Rollback(ctx context.Context) error {
	t.manager.mu.Lock()
	defer t.manager.mu.Unlock()

	if !t.done {
		t.manager.Rollbacks++
		t.done = true
	}

	return nil
}

// MockIDGenerator generates deterministic sequential IDs.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++

	return "id-" + strconv.Itoa(m.counter)
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
