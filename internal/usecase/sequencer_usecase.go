package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/keymutex"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// SequencerUseCase issues unique, monotonically increasing, formatted
// numbers per named sequence. Increments are guarded by a per-code lock on
// top of the store's atomic increment, so no two callers ever observe the
// same CurrentNumber.
type SequencerUseCase struct {
	sequenceRepo SequenceRepository
	locks        *keymutex.KeyMutex
	metrics      *metrics.Metrics
}

// NewSequencerUseCase creates a new SequencerUseCase.
func NewSequencerUseCase(sequenceRepo SequenceRepository, locks *keymutex.KeyMutex) *SequencerUseCase {
	return &SequencerUseCase{
		sequenceRepo: sequenceRepo,
		locks:        locks,
	}
}

// WithMetrics enables issue counting per sequence code.
func (uc *SequencerUseCase) WithMetrics(m *metrics.Metrics) *SequencerUseCase {
	uc.metrics = m
	return uc
}

// CreateSequenceInput represents input for registering a counter.
type CreateSequenceInput struct {
	Code    string
	Initial int64
	Prefix  string
	Suffix  string
}

// CreateSequence registers a new counter starting at Initial. The first
// GetNextNumber call returns Initial+1.
func (uc *SequencerUseCase) CreateSequence(ctx context.Context, input CreateSequenceInput) (*domain.Sequence, error) {
	if input.Code == "" {
		return nil, fmt.Errorf("%w: empty sequence code", domain.ErrSequenceNotFound)
	}

	now := time.Now().UTC()
	sequence := &domain.Sequence{
		Code:          input.Code,
		CurrentNumber: input.Initial,
		Prefix:        input.Prefix,
		Suffix:        input.Suffix,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.sequenceRepo.Create(ctx, sequence); err != nil {
		return nil, err
	}

	return sequence, nil
}

// GetNextNumber atomically advances the counter for code and returns the
// formatted number. Unknown codes fail with domain.ErrSequenceNotFound.
func (uc *SequencerUseCase) GetNextNumber(ctx context.Context, code string) (string, error) {
	unlock := uc.locks.Lock("sequence:" + code)
	defer unlock()

	sequence, err := uc.sequenceRepo.Increment(ctx, code)
	if err != nil {
		return "", err
	}

	if uc.metrics != nil {
		uc.metrics.SequenceNumbersIssued.WithLabelValues(code).Inc()
	}

	return sequence.Format(), nil
}

// GetSequence returns the current state of a counter without advancing it.
func (uc *SequencerUseCase) GetSequence(ctx context.Context, code string) (*domain.Sequence, error) {
	return uc.sequenceRepo.GetByCode(ctx, code)
}
