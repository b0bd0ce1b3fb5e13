package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/keymutex"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// FiscalPeriodUseCase maps dates to periods and drives the open/close
// lifecycle. Open and Close are idempotent: repeating them succeeds and
// only refreshes the UpdatedBy/UpdatedAt audit fields.
type FiscalPeriodUseCase struct {
	periodRepo FiscalPeriodRepository
	activity   ActivityRecorder
	idGen      IDGenerator
	locks      *keymutex.KeyMutex
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewFiscalPeriodUseCase creates a new FiscalPeriodUseCase.
func NewFiscalPeriodUseCase(
	periodRepo FiscalPeriodRepository,
	activity ActivityRecorder,
	idGen IDGenerator,
	locks *keymutex.KeyMutex,
	logger zerolog.Logger,
) *FiscalPeriodUseCase {
	return &FiscalPeriodUseCase{
		periodRepo: periodRepo,
		activity:   activity,
		idGen:      idGen,
		locks:      locks,
		logger:     logger,
	}
}

// WithMetrics enables open/close instrumentation.
func (uc *FiscalPeriodUseCase) WithMetrics(m *metrics.Metrics) *FiscalPeriodUseCase {
	uc.metrics = m
	return uc
}

// CreatePeriodInput represents input for registering a fiscal period.
type CreatePeriodInput struct {
	Code      string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreatePeriod registers a new period in the open state. Non-overlap with
// existing periods is the operator's responsibility.
func (uc *FiscalPeriodUseCase) CreatePeriod(ctx context.Context, input CreatePeriodInput) (*domain.FiscalPeriod, error) {
	now := time.Now().UTC()
	period := &domain.FiscalPeriod{
		Code:      input.Code,
		Name:      input.Name,
		StartDate: domain.DateOnly(input.StartDate),
		EndDate:   domain.DateOnly(input.EndDate),
		Status:    domain.PeriodOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := period.Validate(); err != nil {
		return nil, err
	}

	if err := uc.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}

	return period, nil
}

// GetPeriod returns a period by its code.
func (uc *FiscalPeriodUseCase) GetPeriod(ctx context.Context, code string) (*domain.FiscalPeriod, error) {
	return uc.periodRepo.GetByCode(ctx, code)
}

// GetPeriodForDate returns the single period covering the date, or
// domain.ErrPeriodNotFound. Both open and closed periods are searched.
func (uc *FiscalPeriodUseCase) GetPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	return uc.periodRepo.GetForDate(ctx, date)
}

// IsDateInOpenPeriod reports whether a posting dated date would pass the
// period gate right now.
func (uc *FiscalPeriodUseCase) IsDateInOpenPeriod(ctx context.Context, date time.Time) (bool, error) {
	period, err := uc.periodRepo.GetForDate(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrPeriodNotFound) {
			return false, nil
		}

		return false, err
	}

	return period.IsOpen(), nil
}

// ListByStatus lists periods in the given status.
func (uc *FiscalPeriodUseCase) ListByStatus(ctx context.Context, status domain.PeriodStatus) ([]*domain.FiscalPeriod, error) {
	return uc.periodRepo.ListByStatus(ctx, status)
}

// Open transitions the period to open. Opening an already-open period
// succeeds and refreshes the audit fields.
func (uc *FiscalPeriodUseCase) Open(ctx context.Context, code, actor string) error {
	return uc.setStatus(ctx, code, actor, domain.PeriodOpen, domain.VerbOpenedPeriod)
}

// Close transitions the period to closed, blocking further postings dated
// inside it. Closing takes the same per-period lock as the posting engine,
// so a close never lands between a posting's period check and its commit.
func (uc *FiscalPeriodUseCase) Close(ctx context.Context, code, actor string) error {
	return uc.setStatus(ctx, code, actor, domain.PeriodClosed, domain.VerbClosedPeriod)
}

func (uc *FiscalPeriodUseCase) setStatus(ctx context.Context, code, actor string, status domain.PeriodStatus, verb string) error {
	unlock := uc.locks.Lock("period:" + code)
	defer unlock()

	if _, err := uc.periodRepo.GetByCode(ctx, code); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := uc.periodRepo.UpdateStatus(ctx, code, status, actor, now); err != nil {
		return err
	}

	uc.recordActivity(ctx, actor, verb, code, now)

	if uc.metrics != nil {
		switch status {
		case domain.PeriodOpen:
			uc.metrics.PeriodsOpened.Inc()
		case domain.PeriodClosed:
			uc.metrics.PeriodsClosed.Inc()
		}
	}

	return nil
}

func (uc *FiscalPeriodUseCase) recordActivity(ctx context.Context, actor, verb, target string, at time.Time) {
	if uc.activity == nil {
		return
	}

	err := uc.activity.Record(ctx, &domain.Activity{
		ID:         uc.idGen.Generate(),
		Actor:      actor,
		Verb:       verb,
		Target:     target,
		OccurredAt: at,
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("verb", verb).Str("target", target).Msg("failed to record activity")
	}
}
