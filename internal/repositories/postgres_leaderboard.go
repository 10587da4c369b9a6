package repositories

import (
	"context"
	"fmt"

	"github.com/fitfriends/backend/internal/db"
	"github.com/fitfriends/backend/internal/models"
)

// PostgresLeaderboardRepository reads summed workout totals for a user and
// their direct friends in one query.
type PostgresLeaderboardRepository struct {
	pool db.Pool
}

// NewPostgresLeaderboardRepository constructs a leaderboard repository backed by PostgreSQL.
func NewPostgresLeaderboardRepository(pool db.Pool) *PostgresLeaderboardRepository {
	return &PostgresLeaderboardRepository{pool: pool}
}

// Totals returns one entry per user (the subject plus every direct friend)
// with workout totals summed across all of that user's workouts. Users with
// no workouts still appear, with zero totals.
func (r *PostgresLeaderboardRepository) Totals(ctx context.Context, userID string) ([]models.LeaderboardEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.name,
               COALESCE(SUM(w.total_distance), 0),
               COALESCE(SUM(w.total_steps), 0),
               COALESCE(SUM(w.calories_burned), 0)
        FROM users u
        LEFT JOIN workouts w ON w.user_id = u.id
        WHERE u.id = $1
           OR u.id IN (
               SELECT CASE WHEN f.user_a = $1 THEN f.user_b ELSE f.user_a END
               FROM friendships f
               WHERE $1 IN (f.user_a, f.user_b)
           )
        GROUP BY u.id, u.name
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard totals: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Name, &entry.Distance, &entry.Steps, &entry.CaloriesBurned); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard entries: %w", err)
	}

	return entries, nil
}
