package processing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrAlreadyRunning = errors.New("job already running")

var _ repositories.JobDispatcherInterface = (*Runner)(nil)

// Runner executes simulations on a bounded goroutine pool. Jobs wait in
// pending state until a pool worker is free.
type Runner struct {
	pool      *ants.Pool
	sim       *Simulator
	sink      ProgressSink
	running   map[string]*entity.RunningJob
	runningMu sync.RWMutex
	wg        sync.WaitGroup
	baseCtx   context.Context
	stop      context.CancelFunc
	logger    *zap.Logger
}

func NewRunner(workers int, sim *Simulator, sink ProgressSink, logger *zap.Logger) (*Runner, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Runner{
		pool:    pool,
		sim:     sim,
		sink:    sink,
		running: make(map[string]*entity.RunningJob),
		baseCtx: ctx,
		stop:    stop,
		logger:  logger,
	}, nil
}

func (r *Runner) Dispatch(ctx context.Context, job *entity.Job) error {
	jobCtx, cancel := context.WithCancel(r.baseCtx)

	r.runningMu.Lock()
	if _, exists := r.running[job.ID]; exists {
		r.runningMu.Unlock()
		cancel()
		r.logger.Warn("job already running, skipping", zap.String("job_id", job.ID))
		return ErrAlreadyRunning
	}
	jobCopy := *job
	r.running[job.ID] = &entity.RunningJob{Job: &jobCopy, Cancel: cancel}
	r.runningMu.Unlock()

	r.wg.Add(1)
	go func() {
		// Submit blocks while every pool worker is busy.
		err := r.pool.Submit(func() {
			defer r.wg.Done()
			r.execute(jobCtx, job.ID)
		})
		if err != nil {
			r.logger.Error("failed to submit job", zap.String("job_id", job.ID), zap.Error(err))
			r.release(job.ID)
			r.wg.Done()
		}
	}()

	r.logger.Info("job dispatched", zap.String("job_id", job.ID))
	return nil
}

func (r *Runner) execute(ctx context.Context, jobID string) {
	defer r.release(jobID)

	if ctx.Err() != nil {
		r.logger.Debug("job cancelled before start", zap.String("job_id", jobID))
		return
	}

	err := r.sim.Run(ctx, jobID, r.sink)
	switch {
	case err == nil:
		r.logger.Info("job processed", zap.String("job_id", jobID))
	case errors.Is(err, context.Canceled):
		r.logger.Info("job processing cancelled", zap.String("job_id", jobID))
	default:
		r.logger.Error("job processing failed", zap.String("job_id", jobID), zap.Error(err))
		r.reportFailure(jobID, err)
	}
}

func (r *Runner) reportFailure(jobID string, cause error) {
	err := r.sink.Report(r.baseCtx, &entity.Progress{
		JobID:    jobID,
		WorkerID: r.sim.workerID,
		Status:   entity.StatusFailed,
		Error:    cause.Error(),
	})
	if err != nil {
		r.logger.Error("failed to report job failure", zap.String("job_id", jobID), zap.Error(err))
	}
}

// release forgets the job and cancels its context. Safe to call twice.
func (r *Runner) release(jobID string) {
	r.runningMu.Lock()
	runningJob, exists := r.running[jobID]
	if exists {
		delete(r.running, jobID)
	}
	r.runningMu.Unlock()

	if exists {
		runningJob.Cancel()
	}
}

// Cancel stops a running or waiting job. Unknown ids are ignored.
func (r *Runner) Cancel(ctx context.Context, jobID string) error {
	r.release(jobID)
	return nil
}

func (r *Runner) IsRunning(jobID string) bool {
	r.runningMu.RLock()
	defer r.runningMu.RUnlock()

	_, ok := r.running[jobID]
	return ok
}

func (r *Runner) Running() int {
	r.runningMu.RLock()
	defer r.runningMu.RUnlock()

	return len(r.running)
}

// Close cancels every job, waits for the pool to drain and releases it.
func (r *Runner) Close() error {
	r.stop()
	r.wg.Wait()
	r.pool.Release()
	return nil
}
