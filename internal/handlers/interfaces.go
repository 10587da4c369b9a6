package handlers

import (
	"context"

	"github.com/fitfriends/backend/internal/models"
	"github.com/fitfriends/backend/internal/planner"
)

// ProfileStore captures read access required by the profile and friend handlers.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// ProfileInvalidator drops cached profiles after the friend relation
// changes, so the next profile read sees the new friend list.
type ProfileInvalidator interface {
	Invalidate(userID string)
}

// FriendStore captures operations required by the friend handlers.
type FriendStore interface {
	CreateRequest(ctx context.Context, request models.FriendRequest) error
	ListPending(ctx context.Context, receiverID string) ([]models.FriendRequest, error)
	Accept(ctx context.Context, requesterID, receiverID string) error
	Decline(ctx context.Context, requesterID, receiverID string) error
	Remove(ctx context.Context, userID, friendID string) error
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}

// PostStore captures persistence for social posts.
type PostStore interface {
	ListForUser(ctx context.Context, userID string) ([]models.Post, error)
	Create(ctx context.Context, post models.Post) error
}

// WorkoutStore captures read access to workouts and sensor samples.
type WorkoutStore interface {
	ListForUser(ctx context.Context, userID string) ([]models.Workout, error)
	Summary(ctx context.Context, userID string) (models.ActivitySummary, error)
	SensorData(ctx context.Context, userID, workoutID string) ([]models.SensorSample, error)
}

// LeaderboardSource aggregates workout totals for a user and their friends.
type LeaderboardSource interface {
	Aggregate(ctx context.Context, userID string) (map[string]models.LeaderboardEntry, error)
}

// AdviceGenerator produces a motivational message for a user.
type AdviceGenerator interface {
	Generate(ctx context.Context, userID string) (models.Advice, error)
}

// PlanEngine drives the goal/plan lifecycle.
type PlanEngine interface {
	CreatePlan(ctx context.Context, userID, goalText string) (planner.GenerateResult, error)
	GetPlan(ctx context.Context, userID, taskID string) (planner.Plan, error)
	ToggleTask(ctx context.Context, userID, taskID, day string, index int, completed bool) (planner.Plan, error)
	Progress(ctx context.Context, userID, taskID string) (planner.ProgressReport, error)
}
