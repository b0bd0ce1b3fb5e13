package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/erpledger/internal/domain"
)

// SequenceRepository implements usecase.SequenceRepository. Increment is a
// single UPDATE ... RETURNING, so the counter is atomic at the database
// level regardless of process-level locking.
type SequenceRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewSequenceRepository creates a new SequenceRepository. retrier may be
// nil, in which case transient failures surface immediately.
func NewSequenceRepository(pool *pgxpool.Pool, retrier *Retrier) *SequenceRepository {
	return &SequenceRepository{pool: pool, retrier: retrier}
}

const sequenceColumns = `code, current_number, prefix, suffix, created_at, updated_at`

// Create registers a counter.
func (r *SequenceRepository) Create(ctx context.Context, sequence *domain.Sequence) error {
	query := `
		INSERT INTO sequences (` + sequenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		sequence.Code,
		sequence.CurrentNumber,
		sequence.Prefix,
		sequence.Suffix,
		timeToPgTimestamptz(sequence.CreatedAt),
		timeToPgTimestamptz(sequence.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, sequence.Code)
	}

	return err
}

// GetByCode retrieves a counter without advancing it.
func (r *SequenceRepository) GetByCode(ctx context.Context, code string) (*domain.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE code = $1`

	sequence, err := scanSequence(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSequenceNotFound, code)
		}

		return nil, err
	}

	return sequence, nil
}

// Increment atomically advances the counter and returns its new state.
// The counter row is a contention hot spot, so the update is retried on
// deadlock and serialization failures.
func (r *SequenceRepository) Increment(ctx context.Context, code string) (*domain.Sequence, error) {
	query := `
		UPDATE sequences
		SET current_number = current_number + 1, updated_at = now()
		WHERE code = $1
		RETURNING ` + sequenceColumns

	var sequence *domain.Sequence

	op := func() error {
		var err error
		sequence, err = scanSequence(r.pool.QueryRow(ctx, query, code))
		return err
	}

	var err error
	if r.retrier != nil {
		err = r.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSequenceNotFound, code)
		}

		return nil, err
	}

	return sequence, nil
}

func scanSequence(row pgx.Row) (*domain.Sequence, error) {
	var (
		sequence  domain.Sequence
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&sequence.Code,
		&sequence.CurrentNumber,
		&sequence.Prefix,
		&sequence.Suffix,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sequence.CreatedAt = createdAt.Time
	sequence.UpdatedAt = updatedAt.Time

	return &sequence, nil
}
