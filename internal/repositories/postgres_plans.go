package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fitfriends/backend/internal/db"
)

// PlanProjection is the denormalized relational copy of a stored plan. The
// blob store stays authoritative for plan content; this row exists so plans
// can be listed and inspected with SQL, and it is rebuilt on every blob write.
type PlanProjection struct {
	TaskID     string
	UserID     string
	Content    []byte
	GeneralTip string
	UpdatedAt  time.Time
}

// PlanProjectionStore persists plan projections.
type PlanProjectionStore interface {
	Save(ctx context.Context, projection PlanProjection) error
	Get(ctx context.Context, userID, taskID string) (PlanProjection, error)
	ListForUser(ctx context.Context, userID string) ([]PlanProjection, error)
}

// PostgresPlanRepository provides PostgreSQL-backed persistence for plan
// projections.
type PostgresPlanRepository struct {
	pool db.Pool
}

// NewPostgresPlanRepository constructs a plan repository backed by PostgreSQL.
func NewPostgresPlanRepository(pool db.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

// Save upserts the projection row for a task plan.
func (r *PostgresPlanRepository) Save(ctx context.Context, projection PlanProjection) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO task_plans (task_id, user_id, content, general_tip, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (task_id)
        DO UPDATE SET content = EXCLUDED.content,
                      general_tip = EXCLUDED.general_tip,
                      updated_at = EXCLUDED.updated_at
    `, projection.TaskID, projection.UserID, projection.Content, projection.GeneralTip, projection.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert task plan: %w", err)
	}

	return nil
}

// Get loads the projection row for one (user, task) pair.
func (r *PostgresPlanRepository) Get(ctx context.Context, userID, taskID string) (PlanProjection, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return PlanProjection{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT task_id, user_id, content, general_tip, updated_at
        FROM task_plans
        WHERE user_id = $1 AND task_id = $2
    `, userID, taskID)

	var projection PlanProjection
	if err := row.Scan(&projection.TaskID, &projection.UserID, &projection.Content, &projection.GeneralTip, &projection.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlanProjection{}, ErrNotFound
		}
		return PlanProjection{}, fmt.Errorf("select task plan: %w", err)
	}

	return projection, nil
}

// ListForUser returns all projection rows owned by a user, newest first.
func (r *PostgresPlanRepository) ListForUser(ctx context.Context, userID string) ([]PlanProjection, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT task_id, user_id, content, general_tip, updated_at
        FROM task_plans
        WHERE user_id = $1
        ORDER BY updated_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query task plans: %w", err)
	}
	defer rows.Close()

	projections := make([]PlanProjection, 0)
	for rows.Next() {
		var projection PlanProjection
		if err := rows.Scan(&projection.TaskID, &projection.UserID, &projection.Content, &projection.GeneralTip, &projection.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task plan: %w", err)
		}
		projections = append(projections, projection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task plans: %w", err)
	}

	return projections, nil
}

var _ PlanProjectionStore = (*PostgresPlanRepository)(nil)
