package repositories

import (
	"context"
	"errors"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrJobExists      = errors.New("job already exists")
	ErrResultNotFound = errors.New("result not found")
)

type JobRepositoryInterface interface {
	Create(ctx context.Context, job *entity.Job) error
	Read(ctx context.Context, jobID string) (*entity.Job, error)
	// List returns every job, newest first.
	List(ctx context.Context) ([]*entity.Job, error)
	Upsert(ctx context.Context, jobs []*entity.Job) error
	Delete(ctx context.Context, jobID string) error
}

type ResultRepositoryInterface interface {
	Save(ctx context.Context, result *entity.Result) error
	Get(ctx context.Context, jobID string) (*entity.Result, error)
	Delete(ctx context.Context, jobID string) error
}

// JobDispatcherInterface hands jobs to whatever runs the simulated pipeline.
type JobDispatcherInterface interface {
	Dispatch(ctx context.Context, job *entity.Job) error
	Cancel(ctx context.Context, jobID string) error
}

type ProgressSubscriberInterface interface {
	Subscribe(ctx context.Context, handler func(ctx context.Context, progress *entity.Progress) error) error
	Close() error
}
