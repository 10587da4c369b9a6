package models

import "time"

// User represents an account within the FitFriends platform. Accounts are
// provisioned externally; this service only reads them and maintains the
// friend relation through the request workflow.
type User struct {
	ID           string
	Name         string
	Username     string
	DateOfBirth  time.Time
	ProfileImage string
	Friends      []string
}

// Post is a social feed entry. Posts are immutable once created and are
// never deleted by this service.
type Post struct {
	ID        string
	AuthorID  string
	CreatedAt time.Time
	Content   string
	Image     string

	// Author display fields, joined from the users table on read.
	Username  string
	UserImage string
}

// LatLng is a coordinate pair recorded by the workout tracker.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Workout is a single recorded exercise session. Workout data is read-only
// external data; this service never writes workouts.
type Workout struct {
	ID             string
	UserID         string
	StartedAt      time.Time
	EndedAt        time.Time
	StartLocation  *LatLng
	EndLocation    *LatLng
	Distance       float64
	Steps          int64
	CaloriesBurned float64
}

// SensorSample is one reading captured during a workout. Name and Units are
// nil when the sensor type is missing from the lookup table.
type SensorSample struct {
	SensorID  string
	Name      *string
	Units     *string
	Timestamp time.Time
	Value     float64
}

// ActivitySummary aggregates a user's workout totals.
type ActivitySummary struct {
	Workouts       int
	Distance       float64
	Steps          int64
	CaloriesBurned float64
}

// FriendRequest is a pending invitation from one user to another. Requests
// are deleted on accept (converted into a friendship) or decline.
type FriendRequest struct {
	RequesterID string
	ReceiverID  string
	RequestedAt time.Time

	// Requester display fields for the pending-request listing.
	RequesterName     string
	RequesterUsername string
}

// Friendship is an unordered pair of user ids. Storage keeps the pair in
// canonical order (UserA < UserB) so it appears exactly once regardless of
// which side accepted.
type Friendship struct {
	UserA     string
	UserB     string
	CreatedAt time.Time
}

// Canonical returns the friendship with its ids in storage order.
func (f Friendship) Canonical() Friendship {
	if f.UserB < f.UserA {
		f.UserA, f.UserB = f.UserB, f.UserA
	}
	return f
}

// LeaderboardEntry holds one user's summed workout totals for the
// leaderboard comparison view.
type LeaderboardEntry struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Distance       float64 `json:"distance"`
	Steps          int64   `json:"steps"`
	CaloriesBurned float64 `json:"calories"`
}

// Advice is an ephemeral motivational message. It is generated per request
// and never persisted.
type Advice struct {
	ID        string `json:"advice_id"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Image     string `json:"image,omitempty"`
}
