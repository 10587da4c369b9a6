package planner

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fitfriends/backend/internal/repositories"
)

// ProjectionStore persists the denormalized copy of a plan.
type ProjectionStore interface {
	Save(ctx context.Context, projection repositories.PlanProjection) error
}

// ProjectionWriterConfig controls the concurrency characteristics of the writer.
type ProjectionWriterConfig struct {
	QueueSize int
	Workers   int
}

// ProjectionWriter asynchronously rebuilds relational plan projections after
// blob writes. Projection rows are derived data, so a failed rebuild is
// logged and dropped rather than retried; the next blob write rebuilds it.
type ProjectionWriter struct {
	store  ProjectionStore
	logger *slog.Logger

	jobs   chan projectionJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

type projectionJob struct {
	plan Plan
}

var errProjectionWriterClosed = errors.New("projection writer closed")

// NewProjectionWriter constructs a background worker pool that persists
// projections.
func NewProjectionWriter(store ProjectionStore, cfg ProjectionWriterConfig, logger *slog.Logger) *ProjectionWriter {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &ProjectionWriter{
		store:  store,
		logger: logger,
		jobs:   make(chan projectionJob, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	w.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go w.worker()
	}

	return w
}

// Enqueue schedules a projection rebuild for the supplied plan.
func (w *ProjectionWriter) Enqueue(ctx context.Context, plan Plan) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ctx.Done():
		return errProjectionWriterClosed
	default:
	}

	job := projectionJob{plan: plan}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ctx.Done():
		return errProjectionWriterClosed
	case w.jobs <- job:
		return nil
	}
}

// Shutdown waits for the worker pool to drain outstanding jobs.
func (w *ProjectionWriter) Shutdown(ctx context.Context) error {
	w.once.Do(func() {
		w.cancel()
		close(w.jobs)
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (w *ProjectionWriter) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			w.handleJob(job)
		}
	}
}

func (w *ProjectionWriter) handleJob(job projectionJob) {
	if w.store == nil {
		w.logger.Error("projection writer missing store")
		return
	}

	content, err := json.Marshal(job.plan.Days)
	if err != nil {
		w.logger.Error("encode plan projection", "taskId", job.plan.TaskID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	projection := repositories.PlanProjection{
		TaskID:     job.plan.TaskID,
		UserID:     job.plan.UserID,
		Content:    content,
		GeneralTip: job.plan.GeneralTip,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := w.store.Save(ctx, projection); err != nil {
		w.logger.Error("save plan projection", "taskId", job.plan.TaskID, "error", err)
	}
}

var _ ProjectionEnqueuer = (*ProjectionWriter)(nil)
