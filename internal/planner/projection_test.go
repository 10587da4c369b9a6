package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfriends/backend/internal/repositories"
)

type captureProjectionStore struct {
	mu          sync.Mutex
	projections []repositories.PlanProjection
	failTask    string
	saved       chan struct{}
}

func newCaptureProjectionStore(capacity int) *captureProjectionStore {
	return &captureProjectionStore{saved: make(chan struct{}, capacity)}
}

func (s *captureProjectionStore) Save(_ context.Context, projection repositories.PlanProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTask != "" && projection.TaskID == s.failTask {
		return errors.New("db down")
	}
	s.projections = append(s.projections, projection)
	s.saved <- struct{}{}
	return nil
}

func waitForSaves(t *testing.T, store *captureProjectionStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-store.saved:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for projection save %d of %d", i+1, n)
		}
	}
}

func TestProjectionWriterPersistsPlan(t *testing.T) {
	store := newCaptureProjectionStore(1)
	writer := NewProjectionWriter(store, ProjectionWriterConfig{QueueSize: 4, Workers: 1}, nil)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = writer.Shutdown(ctx)
	}()

	plan := Plan{
		TaskID: "task-1",
		UserID: "user-1",
		Days: map[string][]TaskEntry{
			"Day 1": {{Activity: "Running", Duration: "30 minutes", CalorieGoal: 300}},
		},
		GeneralTip: "Stretch first.",
	}

	require.NoError(t, writer.Enqueue(context.Background(), plan))
	waitForSaves(t, store, 1)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.projections, 1)
	saved := store.projections[0]
	assert.Equal(t, "task-1", saved.TaskID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, "Stretch first.", saved.GeneralTip)
	assert.Contains(t, string(saved.Content), "Running")
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestProjectionWriterRejectsAfterShutdown(t *testing.T) {
	store := newCaptureProjectionStore(1)
	writer := NewProjectionWriter(store, ProjectionWriterConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, writer.Shutdown(ctx))

	err := writer.Enqueue(context.Background(), Plan{TaskID: "task-1"})
	require.Error(t, err)
}

func TestProjectionWriterDropsFailedSave(t *testing.T) {
	// a save failure is logged and dropped; the writer keeps serving
	store := newCaptureProjectionStore(2)
	store.failTask = "task-1"
	writer := NewProjectionWriter(store, ProjectionWriterConfig{QueueSize: 2, Workers: 1}, nil)

	require.NoError(t, writer.Enqueue(context.Background(), Plan{TaskID: "task-1", UserID: "user-1"}))
	require.NoError(t, writer.Enqueue(context.Background(), Plan{TaskID: "task-2", UserID: "user-1"}))
	waitForSaves(t, store, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, writer.Shutdown(ctx))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.projections, 1)
	assert.Equal(t, "task-2", store.projections[0].TaskID)
}
