package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitfriends/backend/internal/genai"
	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/planner"
)

// PlanHandler serves the goal/plan lifecycle: generation, retrieval,
// per-task completion toggles, and progress reporting.
type PlanHandler struct {
	Engine  PlanEngine
	Limiter RateLimiter
}

type createPlanBody struct {
	Goal string `json:"goal"`
}

type toggleTaskBody struct {
	Day       string `json:"day"`
	Index     int    `json:"index"`
	Completed bool   `json:"completed"`
}

// Create generates a new plan for the user's goal. A malformed model response
// is a 200 with the tagged raw payload, not a failure: the caller decides how
// to surface it.
func (h PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")

	if !allowRequest(h.Limiter, r, "plans") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many plan requests"})
		return
	}

	var body createPlanBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid plan payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.Engine.CreatePlan(ctx, userID, body.Goal)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrUnrealisticGoal):
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "goal is not achievable"})
		case errors.Is(err, genai.ErrRateLimited):
			respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many plan requests"})
		default:
			logger.Error("plan generation failed", "userId", userID, "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "plan generation is currently unavailable"})
		}
		return
	}

	if result.Malformed != nil {
		respondJSON(ctx, w, http.StatusOK, result)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, result)
}

// Get returns a stored plan with its persisted completion flags.
func (h PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")
	taskID := r.PathValue("taskID")

	plan, err := h.Engine.GetPlan(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, planner.ErrPlanNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such plan"})
			return
		}
		logger.Error("plan read failed", "userId", userID, "taskId", taskID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "plans are currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, plan)
}

// Toggle flips the completion flag of one task entry and returns the updated
// plan. Addressing a day or index the plan does not contain leaves the stored
// plan untouched.
func (h PlanHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")
	taskID := r.PathValue("taskID")

	var body toggleTaskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid toggle payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	plan, err := h.Engine.ToggleTask(ctx, userID, taskID, body.Day, body.Index, body.Completed)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrPlanNotFound):
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no such plan"})
		case errors.Is(err, planner.ErrTaskOutOfRange):
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "no such task entry"})
		default:
			logger.Error("task toggle failed", "userId", userID, "taskId", taskID, "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "plans are currently unavailable"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, plan)
}

// Progress reports completion counts for a plan. A missing or unreadable plan
// yields an empty report rather than an error so the display always renders.
func (h PlanHandler) Progress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := r.PathValue("userID")
	taskID := r.PathValue("taskID")

	report, err := h.Engine.Progress(ctx, userID, taskID)
	if err != nil {
		logger.Error("progress read failed", "userId", userID, "taskId", taskID, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "plans are currently unavailable"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, report)
}
