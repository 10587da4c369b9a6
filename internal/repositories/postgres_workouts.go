package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fitfriends/backend/internal/db"
	"github.com/fitfriends/backend/internal/models"
)

// PostgresWorkoutRepository provides PostgreSQL-backed read access to workout
// and sensor time series.
type PostgresWorkoutRepository struct {
	pool db.Pool
}

// NewPostgresWorkoutRepository constructs a workout repository backed by PostgreSQL.
func NewPostgresWorkoutRepository(pool db.Pool) *PostgresWorkoutRepository {
	return &PostgresWorkoutRepository{pool: pool}
}

// ListForUser returns all workouts for a user, newest start time first.
func (r *PostgresWorkoutRepository) ListForUser(ctx context.Context, userID string) ([]models.Workout, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, user_id, start_ts, end_ts,
               start_lat, start_lng, end_lat, end_lng,
               total_distance, total_steps, calories_burned
        FROM workouts
        WHERE user_id = $1
        ORDER BY start_ts DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	workouts := make([]models.Workout, 0)
	for rows.Next() {
		var (
			w                  models.Workout
			startLat, startLng sql.NullFloat64
			endLat, endLng     sql.NullFloat64
		)

		if err := rows.Scan(&w.ID, &w.UserID, &w.StartedAt, &w.EndedAt,
			&startLat, &startLng, &endLat, &endLng,
			&w.Distance, &w.Steps, &w.CaloriesBurned); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}

		if startLat.Valid && startLng.Valid {
			w.StartLocation = &models.LatLng{Lat: startLat.Float64, Lng: startLng.Float64}
		}
		if endLat.Valid && endLng.Valid {
			w.EndLocation = &models.LatLng{Lat: endLat.Float64, Lng: endLng.Float64}
		}

		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workouts: %w", err)
	}

	return workouts, nil
}

// Summary aggregates totals over all of the user's workouts. Zero workouts
// yield a zero summary.
func (r *PostgresWorkoutRepository) Summary(ctx context.Context, userID string) (models.ActivitySummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ActivitySummary{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT COUNT(*),
               COALESCE(SUM(total_distance), 0),
               COALESCE(SUM(total_steps), 0),
               COALESCE(SUM(calories_burned), 0)
        FROM workouts
        WHERE user_id = $1
    `, userID)

	var summary models.ActivitySummary
	if err := row.Scan(&summary.Workouts, &summary.Distance, &summary.Steps, &summary.CaloriesBurned); err != nil {
		return models.ActivitySummary{}, fmt.Errorf("scan workout summary: %w", err)
	}

	return summary, nil
}

// SensorData returns samples for one (user, workout) pair. The sensor-type
// join is a left join so samples with an unknown type still surface.
func (r *PostgresWorkoutRepository) SensorData(ctx context.Context, userID, workoutID string) ([]models.SensorSample, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT sd.sensor_id, st.name, st.units, sd.ts, sd.value
        FROM workouts w
        INNER JOIN sensor_data sd ON sd.workout_id = w.id
        LEFT JOIN sensor_types st ON st.id = sd.sensor_id
        WHERE w.user_id = $1 AND w.id = $2
        ORDER BY sd.ts
    `, userID, workoutID)
	if err != nil {
		return nil, fmt.Errorf("query sensor data: %w", err)
	}
	defer rows.Close()

	samples := make([]models.SensorSample, 0)
	for rows.Next() {
		var (
			s           models.SensorSample
			name, units sql.NullString
		)

		if err := rows.Scan(&s.SensorID, &name, &units, &s.Timestamp, &s.Value); err != nil {
			return nil, fmt.Errorf("scan sensor sample: %w", err)
		}

		if name.Valid {
			s.Name = &name.String
		}
		if units.Valid {
			s.Units = &units.String
		}

		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor data: %w", err)
	}

	return samples, nil
}

var _ WorkoutRepository = (*PostgresWorkoutRepository)(nil)
