package entity

// Progress is a single update reported by a processor for a job.
type Progress struct {
	JobID         string    `json:"jobId"`
	WorkerID      string    `json:"workerId,omitempty"`
	Status        JobStatus `json:"status"`
	Progress      float64   `json:"progress"`
	CurrentStep   string    `json:"currentStep"`
	EstimatedTime int       `json:"estimatedTime,omitempty"`
	Error         string    `json:"error,omitempty"`
	ReportedAt    int64     `json:"reportedAt"`
}
