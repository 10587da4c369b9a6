package repositories

import (
	"context"

	"github.com/fitfriends/backend/internal/models"
)

// FriendRepository defines data access for friend requests and the symmetric
// friendship relation. A friendship is an unordered pair stored once in
// canonical order; callers never need to query both column orders.
type FriendRepository interface {
	// CreateRequest records a pending friend request. Rejects self requests
	// (ErrValidation), requests between existing friends (ErrValidation), and
	// duplicate requests in either direction (ErrConflict).
	CreateRequest(ctx context.Context, request models.FriendRequest) error
	// ListPending returns incoming requests for the receiver, most recent first.
	ListPending(ctx context.Context, receiverID string) ([]models.FriendRequest, error)
	// Accept converts a pending request into a friendship. The request delete
	// and the friendship insert run in a single transaction.
	Accept(ctx context.Context, requesterID, receiverID string) error
	// Decline removes a pending request without creating a friendship.
	Decline(ctx context.Context, requesterID, receiverID string) error
	// Remove deletes the friendship between the two users.
	Remove(ctx context.Context, userID, friendID string) error
	// AreFriends reports whether the two users share a friendship.
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
	// ListFriendIDs returns the ids of all direct friends of the user.
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}
