package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	domain "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/service"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound    = repositories.ErrJobNotFound
	ErrResultNotReady = errors.New("result not ready")
)

const (
	QueuedStep       = "Waiting in queue"
	CancelledMessage = "cancelled by user"
	FailedMessage    = "an error occurred during processing"
)

var _ domain.JobServiceInterface = (*JobsService)(nil)

type JobsService struct {
	jobsRepo    repositories.JobRepositoryInterface
	resultsRepo repositories.ResultRepositoryInterface
	dispatcher  repositories.JobDispatcherInterface
	validator   *validator.Validator
	// stateMu serialises read-modify-write cycles on job state.
	stateMu sync.Mutex
	maxAge  time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewJobsService(
	jobsRepo repositories.JobRepositoryInterface,
	resultsRepo repositories.ResultRepositoryInterface,
	dispatcher repositories.JobDispatcherInterface,
	validator *validator.Validator,
	maxAge time.Duration,
	logger *zap.Logger,
) *JobsService {
	return &JobsService{
		jobsRepo:    jobsRepo,
		resultsRepo: resultsRepo,
		dispatcher:  dispatcher,
		validator:   validator,
		maxAge:      maxAge,
		now:         time.Now,
		logger:      logger,
	}
}

func (j *JobsService) Validator() *validator.Validator {
	return j.validator
}

// Upload validates a single PDF and creates a pending job for it. The file
// itself is only inspected, never stored.
func (j *JobsService) Upload(ctx context.Context, files []domain.UploadFile) (*entity.Job, error) {
	if err := j.validator.ValidateCount(len(files)); err != nil {
		return nil, err
	}
	file := files[0]

	data, err := io.ReadAll(io.LimitReader(file.Content, j.validator.MaxSize()+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := j.validator.Validate(file.Name, file.ContentType, int64(len(data)), data); err != nil {
		return nil, err
	}

	pages := validator.PageCount(data)
	if pages == 0 {
		j.logger.Warn("could not read page count, assuming one page", zap.String("file_name", file.Name))
		pages = 1
	}

	now := j.now().UnixMilli()
	job := &entity.Job{
		ID:          uuid.NewString(),
		FileName:    filepath.Base(file.Name),
		FileSize:    int64(len(data)),
		PageCount:   pages,
		Status:      entity.StatusPending,
		CurrentStep: QueuedStep,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := j.jobsRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := j.dispatcher.Dispatch(ctx, job); err != nil {
		j.logger.Error("failed to dispatch job", zap.String("job_id", job.ID), zap.Error(err))
		j.stateMu.Lock()
		job.Status = entity.StatusFailed
		job.Error = "failed to start processing"
		job.FinishedAt = j.now().UnixMilli()
		job.UpdatedAt = job.FinishedAt
		if uerr := j.jobsRepo.Upsert(ctx, []*entity.Job{job}); uerr != nil {
			j.logger.Error("failed to update job status to failed", zap.String("job_id", job.ID), zap.Error(uerr))
		}
		j.stateMu.Unlock()
		return nil, fmt.Errorf("dispatch job: %w", err)
	}

	j.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("file_name", job.FileName),
		zap.Int64("file_size", job.FileSize),
		zap.Int("page_count", job.PageCount))

	return job, nil
}

// UploadBytes is a convenience for callers that already hold the file.
func (j *JobsService) UploadBytes(ctx context.Context, name, contentType string, data []byte) (*entity.Job, error) {
	return j.Upload(ctx, []domain.UploadFile{{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}})
}

// GetJob returns the job with the given id.
func (j *JobsService) GetJob(ctx context.Context, jobID string) (*entity.Job, error) {
	job, err := j.jobsRepo.Read(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// GetJobs returns the job history, newest first.
func (j *JobsService) GetJobs(ctx context.Context) ([]*entity.Job, error) {
	jobs, err := j.jobsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get jobs: %w", err)
	}
	return jobs, nil
}

func (j *JobsService) GetResult(ctx context.Context, jobID string) (*entity.Result, error) {
	job, err := j.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.StatusCompleted {
		return nil, ErrResultNotReady
	}

	result, err := j.resultsRepo.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

// CancelJob moves a non-terminal job to cancelled. It reports false when the
// job had already finished.
func (j *JobsService) CancelJob(ctx context.Context, jobID string) (bool, error) {
	j.stateMu.Lock()
	job, err := j.jobsRepo.Read(ctx, jobID)
	if err != nil {
		j.stateMu.Unlock()
		return false, fmt.Errorf("cancel job: %w", err)
	}
	if job.Status.IsTerminal() {
		j.stateMu.Unlock()
		return false, nil
	}

	now := j.now().UnixMilli()
	job.Status = entity.StatusCancelled
	job.Error = CancelledMessage
	job.EstimatedTime = 0
	job.UpdatedAt = now
	job.FinishedAt = now
	err = j.jobsRepo.Upsert(ctx, []*entity.Job{job})
	j.stateMu.Unlock()
	if err != nil {
		return false, fmt.Errorf("cancel job: %w", err)
	}

	if err := j.dispatcher.Cancel(ctx, jobID); err != nil {
		j.logger.Warn("failed to stop processing of cancelled job", zap.String("job_id", jobID), zap.Error(err))
	}

	j.logger.Info("job cancelled", zap.String("job_id", jobID))
	return true, nil
}

// DeleteJob stops processing if needed and removes the job and its result.
func (j *JobsService) DeleteJob(ctx context.Context, jobID string) error {
	j.stateMu.Lock()
	defer j.stateMu.Unlock()

	job, err := j.jobsRepo.Read(ctx, jobID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	if !job.Status.IsTerminal() {
		if err := j.dispatcher.Cancel(ctx, jobID); err != nil {
			j.logger.Warn("failed to stop processing of deleted job", zap.String("job_id", jobID), zap.Error(err))
		}
	}

	if err := j.remove(ctx, jobID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	j.logger.Info("job deleted", zap.String("job_id", jobID))
	return nil
}

// HandleProgress applies a processor update. Updates for unknown or already
// finished jobs are dropped.
func (j *JobsService) HandleProgress(ctx context.Context, progress *entity.Progress) error {
	if !progress.Status.Valid() {
		return fmt.Errorf("invalid status %q for job %s", progress.Status, progress.JobID)
	}

	j.stateMu.Lock()
	defer j.stateMu.Unlock()

	job, err := j.jobsRepo.Read(ctx, progress.JobID)
	if errors.Is(err, repositories.ErrJobNotFound) {
		j.logger.Debug("progress for unknown job dropped", zap.String("job_id", progress.JobID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read job: %w", err)
	}
	if job.Status.IsTerminal() {
		return nil
	}

	now := j.now()
	job.Status = progress.Status
	job.Progress = clampProgress(progress.Progress)
	job.CurrentStep = progress.CurrentStep
	job.EstimatedTime = progress.EstimatedTime
	job.Error = progress.Error
	job.UpdatedAt = now.UnixMilli()

	switch progress.Status {
	case entity.StatusCompleted:
		job.Progress = 100
		job.EstimatedTime = 0
		job.FinishedAt = now.UnixMilli()

		// the result must exist before pollers can observe completion
		if err := j.resultsRepo.Save(ctx, BuildMockResult(job, now)); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	case entity.StatusFailed:
		job.EstimatedTime = 0
		job.FinishedAt = now.UnixMilli()
		if job.Error == "" {
			job.Error = FailedMessage
		}
	}

	if err := j.jobsRepo.Upsert(ctx, []*entity.Job{job}); err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	if job.Status.IsTerminal() {
		j.logger.Info("job finished",
			zap.String("job_id", job.ID),
			zap.String("status", string(job.Status)),
			zap.String("worker_id", progress.WorkerID))
	}
	return nil
}

// Report lets the service act as the sink of an in-process runner.
func (j *JobsService) Report(ctx context.Context, progress *entity.Progress) error {
	return j.HandleProgress(ctx, progress)
}

// PurgeExpired removes finished jobs older than the retention age.
func (j *JobsService) PurgeExpired(ctx context.Context) (int, error) {
	if j.maxAge <= 0 {
		return 0, nil
	}

	j.stateMu.Lock()
	defer j.stateMu.Unlock()

	jobs, err := j.jobsRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list jobs: %w", err)
	}

	cutoff := j.now().Add(-j.maxAge).UnixMilli()
	purged := 0
	for _, job := range jobs {
		if !job.Status.IsTerminal() || job.FinishedAt == 0 || job.FinishedAt > cutoff {
			continue
		}
		if err := j.remove(ctx, job.ID); err != nil {
			return purged, fmt.Errorf("purge job %s: %w", job.ID, err)
		}
		purged++
	}

	if purged > 0 {
		j.logger.Info("expired jobs purged", zap.Int("count", purged))
	}
	return purged, nil
}

func (j *JobsService) remove(ctx context.Context, jobID string) error {
	if err := j.resultsRepo.Delete(ctx, jobID); err != nil {
		return err
	}
	if err := j.jobsRepo.Delete(ctx, jobID); err != nil && !errors.Is(err, repositories.ErrJobNotFound) {
		return err
	}
	return nil
}

func clampProgress(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
