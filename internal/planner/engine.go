package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fitfriends/backend/internal/genai"
	"github.com/fitfriends/backend/internal/logging"
	"github.com/fitfriends/backend/internal/models"
	"github.com/fitfriends/backend/internal/storage"
)

const systemInstruction = "You are the main fitness trainer for a fitness app. " +
	"You are getting information about the user's past workouts as a JSON list."

const promptTemplate = "Based on the goal: '%s' and the user's past workouts: %s, " +
	"please generate a fitness plan. Return a JSON object with exactly two keys: " +
	`"plan", whose value maps day labels (e.g. 'Day 1', 'Day 2', ...) to a list of task objects ` +
	`with keys "activity", "duration" and "calorie_goal", and "general_tip", a short string of general advice. ` +
	"Take the user's past workouts into account to create a balanced and effective plan. " +
	"The output must be ONLY the JSON object, without surrounding text, code blocks, or line breaks."

// BlobStore is the authoritative store for plan content and completion state.
type BlobStore interface {
	Save(ctx context.Context, key string, content []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// WorkoutSource provides the workout history fed into the prompt.
type WorkoutSource interface {
	ListForUser(ctx context.Context, userID string) ([]models.Workout, error)
}

// ProjectionEnqueuer schedules a rebuild of the relational projection after a
// blob write.
type ProjectionEnqueuer interface {
	Enqueue(ctx context.Context, plan Plan) error
}

// Engine drives the plan lifecycle for (user, task) pairs:
// NoPlan -> PlanRequested -> PlanStored, with per-entry completion toggles
// once stored.
type Engine struct {
	model       genai.TextGenerator
	workouts    WorkoutSource
	blobs       BlobStore
	projections ProjectionEnqueuer
	logger      *slog.Logger

	// mu guards locks. Each plan blob gets its own mutex so concurrent
	// toggles on one plan serialize instead of racing last-write-wins on the
	// whole blob. Entries are never evicted; the map is bounded by the number
	// of plans touched by this process.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine wires a plan engine from its collaborators.
func NewEngine(model genai.TextGenerator, workouts WorkoutSource, blobs BlobStore, projections ProjectionEnqueuer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		model:       model,
		workouts:    workouts,
		blobs:       blobs,
		projections: projections,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lockFor(key string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}

// CreatePlan generates and stores a new plan for the user's goal. A model
// call failure is returned as an error; model output that fails to parse as
// the required JSON object is returned as a Malformed result, never as an
// error and never disguised as plan content.
func (e *Engine) CreatePlan(ctx context.Context, userID, goalText string) (GenerateResult, error) {
	ctx, span := logging.StartSpan(ctx, "planner.create")
	defer span.End()

	goal, err := ParseGoalOrDefault(goalText)
	if err != nil {
		return GenerateResult{}, err
	}

	workouts, err := e.workouts.ListForUser(ctx, userID)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load workout history: %w", err)
	}

	history, err := json.Marshal(workouts)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("encode workout history: %w", err)
	}

	raw, err := e.model.Generate(ctx, systemInstruction, fmt.Sprintf(promptTemplate, goal.Description(), history))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("generate plan: %w", err)
	}

	content, malformed := parsePlanContent(raw)
	if malformed != nil {
		e.logger.Warn("model returned malformed plan", "userId", userID, "diagnostic", malformed.Diagnostic)
		return GenerateResult{Malformed: malformed}, nil
	}

	// Every generated task starts unfinished.
	for day := range content.Days {
		for i := range content.Days[day] {
			content.Days[day][i].Completed = false
		}
	}

	plan := Plan{
		TaskID:     uuid.NewString(),
		UserID:     userID,
		Days:       content.Days,
		GeneralTip: content.GeneralTip,
	}

	if err := e.storePlan(ctx, plan); err != nil {
		return GenerateResult{}, err
	}

	return GenerateResult{Plan: &plan}, nil
}

// GetPlan reads the stored plan from the authoritative blob.
func (e *Engine) GetPlan(ctx context.Context, userID, taskID string) (Plan, error) {
	return e.loadPlan(ctx, userID, taskID)
}

// ToggleTask sets the completion flag of one task entry, addressed by day
// label and index, and writes the whole blob back. The read-modify-write is
// serialized per plan. Out-of-range day or index fails without touching the
// stored blob.
func (e *Engine) ToggleTask(ctx context.Context, userID, taskID, day string, index int, completed bool) (Plan, error) {
	key := BlobKey(userID, taskID)
	lock := e.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	plan, err := e.loadPlan(ctx, userID, taskID)
	if err != nil {
		return Plan{}, err
	}

	tasks, ok := plan.Days[day]
	if !ok {
		return Plan{}, fmt.Errorf("%w: no day %q", ErrTaskOutOfRange, day)
	}
	if index < 0 || index >= len(tasks) {
		return Plan{}, fmt.Errorf("%w: day %q has %d tasks, index %d", ErrTaskOutOfRange, day, len(tasks), index)
	}

	tasks[index].Completed = completed

	if err := e.storePlan(ctx, plan); err != nil {
		return Plan{}, err
	}

	return plan, nil
}

// Progress reports completion state for a plan. An absent or malformed blob
// yields an empty report, not an error.
func (e *Engine) Progress(ctx context.Context, userID, taskID string) (ProgressReport, error) {
	empty := ProgressReport{Days: map[string][]TaskEntry{}}

	raw, err := e.blobs.Load(ctx, BlobKey(userID, taskID))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return empty, nil
		}
		return ProgressReport{}, fmt.Errorf("load plan blob: %w", err)
	}

	var content blobContent
	if err := json.Unmarshal(raw, &content); err != nil || content.Days == nil {
		return empty, nil
	}

	total, completed := countTasks(content.Days)
	return ProgressReport{
		Days:           content.Days,
		TotalTasks:     total,
		CompletedTasks: completed,
	}, nil
}

func (e *Engine) loadPlan(ctx context.Context, userID, taskID string) (Plan, error) {
	raw, err := e.blobs.Load(ctx, BlobKey(userID, taskID))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return Plan{}, ErrPlanNotFound
		}
		return Plan{}, fmt.Errorf("load plan blob: %w", err)
	}

	var content blobContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return Plan{}, fmt.Errorf("decode plan blob: %w", err)
	}

	return Plan{
		TaskID:     taskID,
		UserID:     userID,
		Days:       content.Days,
		GeneralTip: content.GeneralTip,
	}, nil
}

// storePlan writes the authoritative blob, then schedules the projection
// rebuild. A projection enqueue failure is logged but does not fail the
// operation: the projection is derived data.
func (e *Engine) storePlan(ctx context.Context, plan Plan) error {
	raw, err := json.Marshal(blobContent{Days: plan.Days, GeneralTip: plan.GeneralTip})
	if err != nil {
		return fmt.Errorf("encode plan blob: %w", err)
	}

	if err := e.blobs.Save(ctx, BlobKey(plan.UserID, plan.TaskID), raw); err != nil {
		return fmt.Errorf("save plan blob: %w", err)
	}

	if e.projections != nil {
		if err := e.projections.Enqueue(ctx, plan); err != nil {
			e.logger.Warn("enqueue plan projection", "userId", plan.UserID, "taskId", plan.TaskID, "error", err)
		}
	}

	return nil
}
