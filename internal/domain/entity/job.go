package entity

import (
	"context"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// IsTerminal reports whether no further progress is expected for the status.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Job is one uploaded PDF moving through the simulated OCR pipeline.
// Timestamps are unix milliseconds.
type Job struct {
	ID            string
	FileName      string
	FileSize      int64
	PageCount     int
	Status        JobStatus
	Progress      float64
	CurrentStep   string
	EstimatedTime int
	Error         string
	CreatedAt     int64
	UpdatedAt     int64
	FinishedAt    int64
}

type RunningJob struct {
	*Job

	Cancel context.CancelFunc
}
