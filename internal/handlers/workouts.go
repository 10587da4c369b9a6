package handlers

import (
	"net/http"

	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/models"
)

// WorkoutHandler serves workout history, sensor readings, and activity totals.
// All workout data is read-only external tracker data.
type WorkoutHandler struct {
	Workouts WorkoutStore
}

type workoutResponse struct {
	WorkoutID      string         `json:"workout_id"`
	StartTimestamp string         `json:"start_timestamp"`
	EndTimestamp   string         `json:"end_timestamp"`
	StartLocation  *models.LatLng `json:"start_location"`
	EndLocation    *models.LatLng `json:"end_location"`
	Distance       float64        `json:"distance"`
	Steps          int64          `json:"steps"`
	CaloriesBurned float64        `json:"calories_burned"`
}

type sensorSampleResponse struct {
	SensorID  string  `json:"sensor_id"`
	Name      *string `json:"name"`
	Units     *string `json:"units"`
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// List returns the user's workouts newest first. An unknown user yields an
// empty list.
func (h WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	workouts, err := h.Workouts.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("list workouts failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "workout data is currently unavailable"})
		return
	}

	out := make([]workoutResponse, 0, len(workouts))
	for _, workout := range workouts {
		out = append(out, workoutResponse{
			WorkoutID:      workout.ID,
			StartTimestamp: workout.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			EndTimestamp:   workout.EndedAt.UTC().Format("2006-01-02 15:04:05"),
			StartLocation:  workout.StartLocation,
			EndLocation:    workout.EndLocation,
			Distance:       workout.Distance,
			Steps:          workout.Steps,
			CaloriesBurned: workout.CaloriesBurned,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]workoutResponse{"workouts": out})
}

// Sensors returns the raw sensor samples recorded during one workout.
func (h WorkoutHandler) Sensors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")
	workoutID := r.PathValue("workoutID")

	samples, err := h.Workouts.SensorData(ctx, userID, workoutID)
	if err != nil {
		logger.Error("sensor data read failed", "userId", userID, "workoutId", workoutID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "sensor data is currently unavailable"})
		return
	}

	out := make([]sensorSampleResponse, 0, len(samples))
	for _, sample := range samples {
		out = append(out, sensorSampleResponse{
			SensorID:  sample.SensorID,
			Name:      sample.Name,
			Units:     sample.Units,
			Timestamp: sample.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			Value:     sample.Value,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]sensorSampleResponse{"sensor_data": out})
}

// Activity returns the user's lifetime workout totals.
func (h WorkoutHandler) Activity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	summary, err := h.Workouts.Summary(ctx, userID)
	if err != nil {
		logger.Error("activity summary failed", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "workout data is currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"workouts":        summary.Workouts,
		"distance":        summary.Distance,
		"steps":           summary.Steps,
		"calories_burned": summary.CaloriesBurned,
	})
}
