package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitfriends/backend/internal/db"
	"github.com/fitfriends/backend/internal/models"
)

// PostgresFriendRepository provides PostgreSQL-backed persistence for friend
// requests and friendships. Friendships are stored once per pair with
// user_a < user_b, so lookups never need a bidirectional OR.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// CreateRequest persists a new friend request after rejecting self requests,
// requests between existing friends, and duplicates in either direction.
func (r *PostgresFriendRepository) CreateRequest(ctx context.Context, request models.FriendRequest) error {
	if request.RequesterID == request.ReceiverID {
		return ErrValidation
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	friends, err := areFriends(ctx, conn, request.RequesterID, request.ReceiverID)
	if err != nil {
		return err
	}
	if friends {
		return ErrValidation
	}

	var reverseExists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM friend_requests
            WHERE requester_id = $2 AND receiver_id = $1
        )
    `, request.RequesterID, request.ReceiverID).Scan(&reverseExists)
	if err != nil {
		return fmt.Errorf("check reverse friend request: %w", err)
	}
	if reverseExists {
		return ErrConflict
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO friend_requests (requester_id, receiver_id, requested_at)
        VALUES ($1, $2, $3)
    `, request.RequesterID, request.ReceiverID, request.RequestedAt)
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
		return fmt.Errorf("insert friend request: %w", err)
	}

	return nil
}

// ListPending returns incoming requests for the receiver, most recent first.
func (r *PostgresFriendRepository) ListPending(ctx context.Context, receiverID string) ([]models.FriendRequest, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT fr.requester_id, fr.receiver_id, fr.requested_at, u.name, u.username
        FROM friend_requests fr
        JOIN users u ON u.id = fr.requester_id
        WHERE fr.receiver_id = $1
        ORDER BY fr.requested_at DESC
    `, receiverID)
	if err != nil {
		return nil, fmt.Errorf("query friend requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.FriendRequest, 0)
	for rows.Next() {
		var req models.FriendRequest
		if err := rows.Scan(&req.RequesterID, &req.ReceiverID, &req.RequestedAt, &req.RequesterName, &req.RequesterUsername); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend requests: %w", err)
	}

	return requests, nil
}

// Accept converts a pending request into a friendship. Both writes run inside
// one transaction so a crash cannot leave a dangling request or a half-formed
// friendship.
func (r *PostgresFriendRepository) Accept(ctx context.Context, requesterID, receiverID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin accept transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
        DELETE FROM friend_requests
        WHERE requester_id = $1 AND receiver_id = $2
    `, requesterID, receiverID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	pair := models.Friendship{UserA: requesterID, UserB: receiverID}.Canonical()
	_, err = tx.Exec(ctx, `
        INSERT INTO friendships (user_a, user_b, created_at)
        VALUES ($1, $2, NOW())
    `, pair.UserA, pair.UserB)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit accept transaction: %w", err)
	}

	return nil
}

// Decline removes a pending request without creating a friendship.
func (r *PostgresFriendRepository) Decline(ctx context.Context, requesterID, receiverID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM friend_requests
        WHERE requester_id = $1 AND receiver_id = $2
    `, requesterID, receiverID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Remove deletes the friendship between the two users.
func (r *PostgresFriendRepository) Remove(ctx context.Context, userID, friendID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	pair := models.Friendship{UserA: userID, UserB: friendID}.Canonical()
	tag, err := conn.Exec(ctx, `
        DELETE FROM friendships
        WHERE user_a = $1 AND user_b = $2
    `, pair.UserA, pair.UserB)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AreFriends reports whether the two users share a friendship.
func (r *PostgresFriendRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return areFriends(ctx, conn, userID, otherID)
}

// ListFriendIDs returns the ids of all direct friends of the user.
func (r *PostgresFriendRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT CASE WHEN user_a = $1 THEN user_b ELSE user_a END
        FROM friendships
        WHERE $1 IN (user_a, user_b)
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friend ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan friend id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend ids: %w", err)
	}

	return ids, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func areFriends(ctx context.Context, q rowQuerier, userID, otherID string) (bool, error) {
	pair := models.Friendship{UserA: userID, UserB: otherID}.Canonical()

	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM friendships
            WHERE user_a = $1 AND user_b = $2
        )
    `, pair.UserA, pair.UserB).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}

	return exists, nil
}

var _ FriendRepository = (*PostgresFriendRepository)(nil)
