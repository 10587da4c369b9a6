package repositories

import (
	"context"

	"github.com/fitfriends/backend/internal/models"
)

// PostRepository exposes data access for social posts.
type PostRepository interface {
	// ListForUser returns the user's posts joined with author display fields.
	// Unknown users yield an empty list, never an error. Null content and
	// image columns are normalized to empty strings.
	ListForUser(ctx context.Context, userID string) ([]models.Post, error)
	// Create inserts a new post.
	Create(ctx context.Context, post models.Post) error
}
