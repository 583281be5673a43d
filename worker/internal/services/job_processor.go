package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services/processing"
	"go.uber.org/zap"
)

// Dispatcher runs jobs in the background and stops them on request.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *entity.Job) error
	Cancel(ctx context.Context, jobID string) error
}

type JobProcessor struct {
	runner   Dispatcher
	logger   *zap.Logger
	workerID string
}

func NewJobProcessor(runner Dispatcher, logger *zap.Logger, workerID string) *JobProcessor {
	return &JobProcessor{
		runner:   runner,
		logger:   logger,
		workerID: workerID,
	}
}

// ProcessJob hands a received job to the runner. Redelivered jobs that are
// already running on this worker are ignored.
func (p *JobProcessor) ProcessJob(ctx context.Context, msg *dto.JobMessage) error {
	if msg.ID == "" {
		return errors.New("job message without id")
	}

	p.logger.Info("Processing job",
		zap.String("job_id", msg.ID),
		zap.String("worker_id", p.workerID),
		zap.String("file_name", msg.FileName),
		zap.Int("page_count", msg.PageCount))

	job := &entity.Job{
		ID:        msg.ID,
		FileName:  msg.FileName,
		FileSize:  msg.FileSize,
		PageCount: msg.PageCount,
		Status:    entity.StatusPending,
		CreatedAt: msg.CreatedAt,
	}

	err := p.runner.Dispatch(ctx, job)
	if errors.Is(err, processing.ErrAlreadyRunning) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dispatch job %s: %w", msg.ID, err)
	}
	return nil
}

// CancelJob stops the job if this worker runs it.
func (p *JobProcessor) CancelJob(ctx context.Context, msg *dto.CancelMessage) error {
	p.logger.Debug("Cancel requested",
		zap.String("job_id", msg.JobID),
		zap.String("worker_id", p.workerID))

	if err := p.runner.Cancel(ctx, msg.JobID); err != nil {
		return fmt.Errorf("cancel job %s: %w", msg.JobID, err)
	}
	return nil
}
