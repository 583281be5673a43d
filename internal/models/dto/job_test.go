package dto

import (
	"encoding/json"
	"testing"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobStatusOmitsEstimateForTerminalJobs(t *testing.T) {
	job := &entity.Job{ID: "j1", Status: entity.StatusProcessing, Progress: 42, CurrentStep: "Extracting text", EstimatedTime: 3}
	status := NewJobStatus(job)
	require.NotNil(t, status.EstimatedTime)
	assert.Equal(t, 3, *status.EstimatedTime)

	job.Status = entity.StatusCompleted
	assert.Nil(t, NewJobStatus(job).EstimatedTime)
}

func TestEnvelopeShape(t *testing.T) {
	raw, err := json.Marshal(OK(CancelResponse{Cancelled: true}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"cancelled":true}}`, string(raw))

	raw, err = json.Marshal(Fail(CodeJobNotFound, "job not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"JOB_NOT_FOUND","message":"job not found"}}`, string(raw))
}
