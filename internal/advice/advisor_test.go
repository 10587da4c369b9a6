package advice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfriends/backend/internal/models"
)

type stubModel struct {
	output string
	err    error

	lastPrompt string
}

func (m *stubModel) Generate(_ context.Context, _, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

type stubWorkouts struct {
	workouts []models.Workout
	err      error
}

func (s *stubWorkouts) ListForUser(context.Context, string) ([]models.Workout, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.workouts, nil
}

func TestAdvisorGenerate(t *testing.T) {
	model := &stubModel{output: "One more run and you'll beat last week!"}
	workouts := &stubWorkouts{workouts: []models.Workout{
		{ID: "workout-1", UserID: "user-1", Distance: 6.2, CaloriesBurned: 450},
	}}

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	advisor := NewAdvisor(workouts, model, loc)
	advisor.nowFunc = func() time.Time {
		return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	}
	advisor.pickFunc = func(int) int { return 0 }

	advice, err := advisor.Generate(context.Background(), "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, advice.ID)
	assert.Equal(t, "One more run and you'll beat last week!", advice.Content)
	assert.Equal(t, defaultImages[0], advice.Image)
	// noon UTC is 07:00 in New York in March
	assert.Equal(t, "2025-03-01 07:00:00", advice.Timestamp)

	assert.Contains(t, model.lastPrompt, "workout-1")
}

func TestAdvisorGenerateFreshEachCall(t *testing.T) {
	advisor := NewAdvisor(&stubWorkouts{}, &stubModel{output: "Keep going!"}, nil)

	first, err := advisor.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := advisor.Generate(context.Background(), "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestAdvisorGenerateNoImage(t *testing.T) {
	advisor := NewAdvisor(&stubWorkouts{}, &stubModel{output: "Keep going!"}, nil)
	advisor.pickFunc = func(n int) int { return n - 1 }

	advice, err := advisor.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, advice.Image)
}

func TestAdvisorGenerateFailures(t *testing.T) {
	t.Run("workoutSourceDown", func(t *testing.T) {
		advisor := NewAdvisor(&stubWorkouts{err: errors.New("db down")}, &stubModel{}, nil)
		_, err := advisor.Generate(context.Background(), "user-1")
		require.Error(t, err)
	})

	t.Run("modelDown", func(t *testing.T) {
		advisor := NewAdvisor(&stubWorkouts{}, &stubModel{err: errors.New("upstream 503")}, nil)
		_, err := advisor.Generate(context.Background(), "user-1")
		require.Error(t, err)
	})
}
