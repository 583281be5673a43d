package services

import (
	"context"
	"io"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
)

// UploadFile is one file part received by the upload endpoint.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

type JobServiceInterface interface {
	Upload(ctx context.Context, files []UploadFile) (*entity.Job, error)
	GetJob(ctx context.Context, jobID string) (*entity.Job, error)
	GetJobs(ctx context.Context) ([]*entity.Job, error)
	GetResult(ctx context.Context, jobID string) (*entity.Result, error)
	CancelJob(ctx context.Context, jobID string) (bool, error)
	DeleteJob(ctx context.Context, jobID string) error
	HandleProgress(ctx context.Context, progress *entity.Progress) error
	PurgeExpired(ctx context.Context) (int, error)
}
