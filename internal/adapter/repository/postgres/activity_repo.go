package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/erpledger/internal/domain"
)

// ActivityRepository implements usecase.ActivityRecorder over an
// append-only activities table.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Record appends an activity.
func (r *ActivityRepository) Record(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, actor, verb, target, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.Actor,
		activity.Verb,
		activity.Target,
		timeToPgTimestamptz(activity.OccurredAt),
	)

	return err
}

// ListByTarget lists activities for a target in occurrence order.
func (r *ActivityRepository) ListByTarget(ctx context.Context, target string) ([]*domain.Activity, error) {
	query := `
		SELECT id, actor, verb, target, occurred_at
		FROM activities
		WHERE target = $1
		ORDER BY occurred_at, id
	`

	rows, err := r.pool.Query(ctx, query, target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		var (
			activity   domain.Activity
			occurredAt pgtype.Timestamptz
		)

		err := rows.Scan(&activity.ID, &activity.Actor, &activity.Verb, &activity.Target, &occurredAt)
		if err != nil {
			return nil, err
		}

		activity.OccurredAt = occurredAt.Time
		activities = append(activities, &activity)
	}

	return activities, rows.Err()
}
