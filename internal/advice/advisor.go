// Package advice generates ephemeral motivational messages from a user's
// workout history. Advice is never persisted; every call produces a fresh
// id and timestamp.
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/fitfriends/backend/internal/genai"
	"github.com/fitfriends/backend/internal/models"
)

const systemInstruction = "You are the main motivational trainer for a fitness app. " +
	"You are getting information about the user's past workouts as a JSON list."

const promptTemplate = "Here are the user's past workouts: %s. " +
	"Please give exactly one motivational message for the user of this fitness app " +
	"based on those workouts. Output only the message itself."

// defaultImages is the fixed candidate set of illustrative images. The empty
// string means no image accompanies the advice.
var defaultImages = []string{
	"https://plus.unsplash.com/premium_photo-1669048780129-051d670fa2d1",
	"https://joggo.run/blog/app/uploads/2022/01/running-inspiration-660x440.jpg.webp",
	"https://st4.depositphotos.com/2760050/21096/i/450/depositphotos_210961042-stock-photo-never-stop-silhouette-man-motion.jpg",
	"",
}

// WorkoutSource provides the workout history fed into the prompt.
type WorkoutSource interface {
	ListForUser(ctx context.Context, userID string) ([]models.Workout, error)
}

// Advisor builds advice messages from workout history and a generative model.
type Advisor struct {
	workouts WorkoutSource
	model    genai.TextGenerator
	location *time.Location
	images   []string

	nowFunc  func() time.Time
	pickFunc func(n int) int
}

// NewAdvisor constructs an Advisor that stamps timestamps in the provided
// timezone.
func NewAdvisor(workouts WorkoutSource, model genai.TextGenerator, location *time.Location) *Advisor {
	if location == nil {
		location = time.UTC
	}
	return &Advisor{
		workouts: workouts,
		model:    model,
		location: location,
		images:   defaultImages,
		nowFunc:  time.Now,
		pickFunc: rand.Intn,
	}
}

// Generate produces one motivational message for the user. Model failures
// propagate to the caller; there is no retry and no caching of prior advice.
func (a *Advisor) Generate(ctx context.Context, userID string) (models.Advice, error) {
	workouts, err := a.workouts.ListForUser(ctx, userID)
	if err != nil {
		return models.Advice{}, fmt.Errorf("load workout history: %w", err)
	}

	history, err := json.Marshal(workouts)
	if err != nil {
		return models.Advice{}, fmt.Errorf("encode workout history: %w", err)
	}

	message, err := a.model.Generate(ctx, systemInstruction, fmt.Sprintf(promptTemplate, history))
	if err != nil {
		return models.Advice{}, fmt.Errorf("generate advice: %w", err)
	}

	return models.Advice{
		ID:        uuid.NewString(),
		Timestamp: a.nowFunc().In(a.location).Format("2006-01-02 15:04:05"),
		Content:   message,
		Image:     a.images[a.pickFunc(len(a.images))],
	}, nil
}
