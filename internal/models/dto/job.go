package dto

import "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"

type UploadResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// JobStatus is what pollers read while a job is running.
type JobStatus struct {
	JobID         string           `json:"jobId"`
	Status        entity.JobStatus `json:"status"`
	Progress      float64          `json:"progress"`
	CurrentStep   string           `json:"currentStep"`
	EstimatedTime *int             `json:"estimatedTime,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// OCRResult is served as-is; the entity already carries the wire tags.
type OCRResult = entity.Result

type JobSummary struct {
	JobID      string           `json:"jobId"`
	FileName   string           `json:"fileName"`
	FileSize   int64            `json:"fileSize"`
	PageCount  int              `json:"pageCount"`
	Status     entity.JobStatus `json:"status"`
	Progress   float64          `json:"progress"`
	CreatedAt  int64            `json:"createdAt"`
	FinishedAt int64            `json:"finishedAt,omitempty"`
}

type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// JobMessage is published to processing workers.
type JobMessage struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	PageCount int    `json:"pageCount"`
	CreatedAt int64  `json:"createdAt"`
}

type CancelMessage struct {
	JobID string `json:"jobId"`
}

func NewJobStatus(job *entity.Job) JobStatus {
	status := JobStatus{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Error:       job.Error,
	}
	if !job.Status.IsTerminal() && job.EstimatedTime > 0 {
		eta := job.EstimatedTime
		status.EstimatedTime = &eta
	}
	return status
}

func NewJobSummary(job *entity.Job) JobSummary {
	return JobSummary{
		JobID:      job.ID,
		FileName:   job.FileName,
		FileSize:   job.FileSize,
		PageCount:  job.PageCount,
		Status:     job.Status,
		Progress:   job.Progress,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
}

func NewJobMessage(job *entity.Job) JobMessage {
	return JobMessage{
		ID:        job.ID,
		FileName:  job.FileName,
		FileSize:  job.FileSize,
		PageCount: job.PageCount,
		CreatedAt: job.CreatedAt,
	}
}
