package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	profiles := ProfileHandler{Profiles: deps.Profiles}
	posts := PostHandler{Posts: deps.Posts}
	workouts := WorkoutHandler{Workouts: deps.Workouts}
	board := LeaderboardHandler{Leaderboard: deps.Leaderboard}
	friends := FriendHandler{Friends: deps.Friends, Profiles: deps.Profiles, ProfileCache: deps.ProfileCache}
	advice := AdviceHandler{Advisor: deps.Advisor, Limiter: deps.AdviceLimiter}
	plans := PlanHandler{Engine: deps.Plans, Limiter: deps.PlanLimiter}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/users/{userID}/profile", profiles.Get)
	mux.HandleFunc("/api/v1/users/{userID}/posts", posts.Handle)
	mux.HandleFunc("/api/v1/users/{userID}/workouts", workouts.List)
	mux.HandleFunc("/api/v1/users/{userID}/workouts/{workoutID}/sensors", workouts.Sensors)
	mux.HandleFunc("/api/v1/users/{userID}/activity", workouts.Activity)
	mux.HandleFunc("/api/v1/users/{userID}/leaderboard", board.Get)
	mux.HandleFunc("/api/v1/users/{userID}/friends", friends.List)
	mux.HandleFunc("/api/v1/users/{userID}/friends/search", friends.Search)
	mux.HandleFunc("/api/v1/users/{userID}/friends/requests", friends.Requests)
	mux.HandleFunc("/api/v1/users/{userID}/friends/respond", friends.Respond)
	mux.HandleFunc("/api/v1/users/{userID}/friends/remove", friends.Remove)
	mux.HandleFunc("/api/v1/users/{userID}/advice", advice.Get)
	mux.HandleFunc("/api/v1/users/{userID}/plans", plans.Create)
	mux.HandleFunc("/api/v1/users/{userID}/plans/{taskID}", plans.Get)
	mux.HandleFunc("/api/v1/users/{userID}/plans/{taskID}/toggle", plans.Toggle)
	mux.HandleFunc("/api/v1/users/{userID}/plans/{taskID}/progress", plans.Progress)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Profiles      ProfileStore
	ProfileCache  ProfileInvalidator
	Friends       FriendStore
	Posts         PostStore
	Workouts      WorkoutStore
	Leaderboard   LeaderboardSource
	Advisor       AdviceGenerator
	Plans         PlanEngine
	AdviceLimiter RateLimiter
	PlanLimiter   RateLimiter
}
