package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fitfriends/backend/internal/db"
	"github.com/fitfriends/backend/internal/models"
)

// PostgresProfileRepository provides PostgreSQL-backed read access to profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Get fetches a profile with its aggregated friend ids.
func (r *PostgresProfileRepository) Get(ctx context.Context, userID string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.name, u.username, u.date_of_birth, COALESCE(u.image_url, ''),
               COALESCE(
                   ARRAY_AGG(CASE WHEN f.user_a = u.id THEN f.user_b ELSE f.user_a END)
                       FILTER (WHERE f.user_a IS NOT NULL),
                   '{}'
               ) AS friends
        FROM users u
        LEFT JOIN friendships f ON u.id IN (f.user_a, f.user_b)
        WHERE u.id = $1
        GROUP BY u.id, u.name, u.username, u.date_of_birth, u.image_url
    `, userID)

	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Username, &user.DateOfBirth, &user.ProfileImage, &user.Friends); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select profile: %w", err)
	}

	return user, nil
}

// FindByUsername resolves a user by handle without the friend aggregation.
func (r *PostgresProfileRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, name, username, date_of_birth, COALESCE(image_url, '')
        FROM users
        WHERE username = $1
    `, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Username, &user.DateOfBirth, &user.ProfileImage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by username: %w", err)
	}

	return user, nil
}

var _ ProfileRepository = (*PostgresProfileRepository)(nil)
