package repositories

import (
	"context"

	"github.com/fitfriends/backend/internal/models"
)

// WorkoutRepository exposes read access to workout and sensor time series.
// Workout data is written by the tracking pipeline, never by this service.
type WorkoutRepository interface {
	// ListForUser returns all workouts for a user, newest start time first.
	ListForUser(ctx context.Context, userID string) ([]models.Workout, error)
	// Summary aggregates totals over all of the user's workouts. A user with
	// zero workouts gets a zero summary, not an error.
	Summary(ctx context.Context, userID string) (models.ActivitySummary, error)
	// SensorData returns samples for one (user, workout) pair. Samples with an
	// unknown sensor type still surface, with nil name and units.
	SensorData(ctx context.Context, userID, workoutID string) ([]models.SensorSample, error)
}
