package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/fitfriends/backend/internal/advice"
	"github.com/fitfriends/backend/internal/config"
	"github.com/fitfriends/backend/internal/db"
	"github.com/fitfriends/backend/internal/genai"
	"github.com/fitfriends/backend/internal/handlers"
	"github.com/fitfriends/backend/internal/leaderboard"
	"github.com/fitfriends/backend/internal/middleware"
	"github.com/fitfriends/backend/internal/planner"
	"github.com/fitfriends/backend/internal/repositories"
	"github.com/fitfriends/backend/internal/storage"
)

const profileCacheTTL = 30 * time.Second

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned ProjectionWriter must be shut down when the process
// stops so queued plan projections drain.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, *planner.ProjectionWriter, error) {
	blobs, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, nil, fmt.Errorf("build blob storage: %w", err)
	}

	location, err := time.LoadLocation(cfg.AdviceTimezone)
	if err != nil {
		return handlers.Dependencies{}, nil, fmt.Errorf("load advice timezone %q: %w", cfg.AdviceTimezone, err)
	}

	// One limiter for outbound model calls shared by advice and plan
	// generation, plus per-user limiters at the HTTP edge.
	modelLimiter := rate.NewLimiter(rate.Every(cfg.RateLimitWindow/time.Duration(cfg.RateLimitRequests)), cfg.RateLimitRequests)
	model := genai.NewClient(cfg.Model, modelLimiter)

	workouts := repositories.NewPostgresWorkoutRepository(pool)
	profiles := repositories.NewCachingProfileRepository(repositories.NewPostgresProfileRepository(pool), profileCacheTTL)

	projections := planner.NewProjectionWriter(
		repositories.NewPostgresPlanRepository(pool),
		planner.ProjectionWriterConfig{QueueSize: 32, Workers: 2},
		logger,
	)

	deps := handlers.Dependencies{
		Profiles:     profiles,
		ProfileCache: profiles,
		Friends:      repositories.NewPostgresFriendRepository(pool),
		Posts:        repositories.NewPostgresPostRepository(pool),
		Workouts:     workouts,
		Leaderboard:  leaderboard.NewAggregator(repositories.NewPostgresLeaderboardRepository(pool)),
		Advisor:      advice.NewAdvisor(workouts, model, location),
		Plans:        planner.NewEngine(model, workouts, blobs, projections, logger),
		AdviceLimiter: middleware.NewIPRateLimiter(
			cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitRequests, 10*time.Minute),
		PlanLimiter: middleware.NewIPRateLimiter(
			cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitRequests, 10*time.Minute),
	}

	return deps, projections, nil
}
