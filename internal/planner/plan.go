// Package planner implements the goal/plan lifecycle: parsing a fitness
// goal, generating a day-by-day plan via the generative model, persisting it,
// and tracking per-task completion.
//
// The blob store is the single authoritative store for plan content. The
// relational task_plans row is a derived projection rebuilt on every blob
// write and never read as a source of truth.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrPlanNotFound indicates no plan blob exists for the (user, task) pair.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrTaskOutOfRange indicates a toggle addressed a day or index the plan
	// does not contain. The stored blob is left untouched.
	ErrTaskOutOfRange = errors.New("task entry out of range")
)

// TaskEntry is one recommended activity within a single day of a plan.
type TaskEntry struct {
	Activity    string  `json:"activity"`
	Duration    string  `json:"duration"`
	CalorieGoal float64 `json:"calorie_goal"`
	Completed   bool    `json:"completed"`
}

// Plan is a generated day-by-day set of recommended tasks.
type Plan struct {
	TaskID     string                 `json:"task_id"`
	UserID     string                 `json:"user_id"`
	Days       map[string][]TaskEntry `json:"plan"`
	GeneralTip string                 `json:"general_tip"`
}

// MalformedResponse carries the raw model output and the parser diagnostic
// when the model violates the JSON contract. It is a result value, not an
// error: the upstream call succeeded, the payload did not.
type MalformedResponse struct {
	RawText    string `json:"raw_text"`
	Diagnostic string `json:"diagnostic"`
}

// GenerateResult is the tagged outcome of plan generation: exactly one of
// Plan and Malformed is set.
type GenerateResult struct {
	Plan      *Plan              `json:"plan,omitempty"`
	Malformed *MalformedResponse `json:"malformed,omitempty"`
}

// ProgressReport summarizes completion state across a plan.
type ProgressReport struct {
	Days           map[string][]TaskEntry `json:"plan"`
	TotalTasks     int                    `json:"total_tasks"`
	CompletedTasks int                    `json:"completed_tasks"`
}

// blobContent is the shape persisted to the blob store; it matches the model
// contract so a stored blob round-trips through the same decoder.
type blobContent struct {
	Days       map[string][]TaskEntry `json:"plan"`
	GeneralTip string                 `json:"general_tip"`
}

// BlobKey is the object-store key for a plan's completion state.
func BlobKey(userID, taskID string) string {
	return fmt.Sprintf("task_completion/completed_%s_%s.json", userID, taskID)
}

// parsePlanContent decodes model output into the day->tasks structure. It
// returns a MalformedResponse instead of an error when the text is not the
// required two-key JSON object.
func parsePlanContent(raw string) (blobContent, *MalformedResponse) {
	var decoded struct {
		Days       map[string][]TaskEntry `json:"plan"`
		GeneralTip *string                `json:"general_tip"`
	}

	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return blobContent{}, &MalformedResponse{RawText: raw, Diagnostic: err.Error()}
	}
	if decoded.Days == nil {
		return blobContent{}, &MalformedResponse{RawText: raw, Diagnostic: `missing required "plan" key`}
	}

	content := blobContent{Days: decoded.Days}
	if decoded.GeneralTip != nil {
		content.GeneralTip = *decoded.GeneralTip
	}

	return content, nil
}

func countTasks(days map[string][]TaskEntry) (total, completed int) {
	for _, tasks := range days {
		total += len(tasks)
		for _, task := range tasks {
			if task.Completed {
				completed++
			}
		}
	}
	return total, completed
}
