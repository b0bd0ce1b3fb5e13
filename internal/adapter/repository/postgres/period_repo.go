package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/erpledger/internal/domain"
)

// FiscalPeriodRepository implements usecase.FiscalPeriodRepository.
type FiscalPeriodRepository struct {
	pool *pgxpool.Pool
}

// NewFiscalPeriodRepository creates a new FiscalPeriodRepository.
func NewFiscalPeriodRepository(pool *pgxpool.Pool) *FiscalPeriodRepository {
	return &FiscalPeriodRepository{pool: pool}
}

const periodColumns = `code, name, start_date, end_date, status, updated_by, created_at, updated_at`

// Create registers a fiscal period.
func (r *FiscalPeriodRepository) Create(ctx context.Context, period *domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		period.Code,
		period.Name,
		timeToPgDate(period.StartDate),
		timeToPgDate(period.EndDate),
		string(period.Status),
		period.UpdatedBy,
		timeToPgTimestamptz(period.CreatedAt),
		timeToPgTimestamptz(period.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, period.Code)
	}

	return err
}

// GetByCode retrieves a period by its code.
func (r *FiscalPeriodRepository) GetByCode(ctx context.Context, code string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE code = $1`

	period, err := scanPeriod(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, code)
		}

		return nil, err
	}

	return period, nil
}

// GetForDate retrieves the period covering a date, both bounds inclusive.
func (r *FiscalPeriodRepository) GetForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date
		LIMIT 1
	`

	day := domain.DateOnly(date)

	period, err := scanPeriod(r.pool.QueryRow(ctx, query, timeToPgDate(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, day.Format("2006-01-02"))
		}

		return nil, err
	}

	return period, nil
}

// ListByStatus lists periods in the given status ordered by start date.
func (r *FiscalPeriodRepository) ListByStatus(ctx context.Context, status domain.PeriodStatus) ([]*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE status = $1 ORDER BY start_date`

	rows, err := r.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.FiscalPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}

		periods = append(periods, period)
	}

	return periods, rows.Err()
}

// UpdateStatus sets the period status and refreshes the audit fields.
func (r *FiscalPeriodRepository) UpdateStatus(ctx context.Context, code string, status domain.PeriodStatus, actor string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $2, updated_by = $3, updated_at = $4
		WHERE code = $1
	`

	tag, err := r.pool.Exec(ctx, query, code, string(status), actor, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, code)
	}

	return nil
}

func scanPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var (
		period    domain.FiscalPeriod
		status    string
		startDate pgtype.Date
		endDate   pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&period.Code,
		&period.Name,
		&startDate,
		&endDate,
		&status,
		&period.UpdatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	period.Status = domain.PeriodStatus(status)
	period.StartDate = domain.DateOnly(startDate.Time)
	period.EndDate = domain.DateOnly(endDate.Time)
	period.CreatedAt = createdAt.Time
	period.UpdatedAt = updatedAt.Time

	return &period, nil
}
