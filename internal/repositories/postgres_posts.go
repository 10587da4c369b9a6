package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitfriends/backend/internal/db"
	"github.com/fitfriends/backend/internal/models"
)

// PostgresPostRepository provides PostgreSQL-backed persistence for posts.
type PostgresPostRepository struct {
	pool db.Pool
}

// NewPostgresPostRepository constructs a post repository backed by PostgreSQL.
func NewPostgresPostRepository(pool db.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// ListForUser returns the user's posts joined with author display fields.
// Null content and image columns come back as empty strings; callers never
// see nulls.
func (r *PostgresPostRepository) ListForUser(ctx context.Context, userID string) ([]models.Post, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.author_id, p.created_at,
               COALESCE(p.content, ''), COALESCE(p.image_url, ''),
               u.username, COALESCE(u.image_url, '')
        FROM posts p
        JOIN users u ON u.id = p.author_id
        WHERE p.author_id = $1
        ORDER BY p.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.CreatedAt, &post.Content, &post.Image, &post.Username, &post.UserImage); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Create inserts a new post record.
func (r *PostgresPostRepository) Create(ctx context.Context, post models.Post) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO posts (id, author_id, created_at, content, image_url)
        VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
    `, post.ID, post.AuthorID, post.CreatedAt, post.Content, post.Image)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

var _ PostRepository = (*PostgresPostRepository)(nil)
