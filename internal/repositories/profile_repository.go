package repositories

import (
	"context"

	"github.com/fitfriends/backend/internal/models"
)

// ProfileRepository defines read access to user profiles.
type ProfileRepository interface {
	// Get returns the profile for the given user id, including the ids of all
	// direct friends. Returns ErrNotFound when the user does not exist.
	Get(ctx context.Context, userID string) (models.User, error)
	// FindByUsername resolves a user by their handle, without the friend list.
	FindByUsername(ctx context.Context, username string) (models.User, error)
}
