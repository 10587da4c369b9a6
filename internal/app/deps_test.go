package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitfriends/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		ObjectStore: config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
		Model: config.ModelConfig{
			Endpoint: "http://localhost:11434",
			Name:     "test-model",
			Timeout:  time.Second,
		},
		AdviceTimezone:    "America/New_York",
		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	deps, projections, err := buildDependencies(context.Background(), fakePool{}, cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if projections == nil {
		t.Fatal("expected projection writer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = projections.Shutdown(ctx)
	}()

	if deps.Profiles == nil {
		t.Fatal("expected profile repository to be configured")
	}
	if deps.ProfileCache == nil {
		t.Fatal("expected profile cache invalidator to be configured")
	}
	if deps.Friends == nil {
		t.Fatal("expected friend repository to be configured")
	}
	if deps.Posts == nil {
		t.Fatal("expected post repository to be configured")
	}
	if deps.Workouts == nil {
		t.Fatal("expected workout repository to be configured")
	}
	if deps.Leaderboard == nil {
		t.Fatal("expected leaderboard aggregator to be configured")
	}
	if deps.Advisor == nil {
		t.Fatal("expected advisor to be configured")
	}
	if deps.Plans == nil {
		t.Fatal("expected plan engine to be configured")
	}
	if deps.AdviceLimiter == nil || deps.PlanLimiter == nil {
		t.Fatal("expected rate limiters to be configured")
	}
}

func TestBuildDependenciesRejectsBadTimezone(t *testing.T) {
	cfg := config.Config{
		ObjectStore:       config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
		AdviceTimezone:    "Nowhere/Nonsense",
		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	if _, _, err := buildDependencies(context.Background(), fakePool{}, cfg, logger); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
