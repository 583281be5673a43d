package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services/processing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type collectingSink struct {
	mu      sync.Mutex
	reports []entity.Progress
}

func (s *collectingSink) Report(ctx context.Context, p *entity.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, *p)
	return nil
}

func (s *collectingSink) last() (entity.Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reports) == 0 {
		return entity.Progress{}, false
	}
	return s.reports[len(s.reports)-1], true
}

func newRunner(t *testing.T, tick time.Duration, sink processing.ProgressSink) *processing.Runner {
	t.Helper()
	sim := processing.NewSimulator(tick, 0, processing.WithWorkerID("worker-1"))
	runner, err := processing.NewRunner(2, sim, sink, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })
	return runner
}

func TestProcessJobRunsToCompletion(t *testing.T) {
	sink := &collectingSink{}
	processor := NewJobProcessor(newRunner(t, time.Microsecond, sink), zap.NewNop(), "worker-1")

	require.NoError(t, processor.ProcessJob(context.Background(), &dto.JobMessage{ID: "job-1", FileName: "a.pdf", PageCount: 1}))

	require.Eventually(t, func() bool {
		p, ok := sink.last()
		return ok && p.Status == entity.StatusCompleted
	}, 5*time.Second, 5*time.Millisecond)

	p, _ := sink.last()
	assert.Equal(t, "job-1", p.JobID)
	assert.Equal(t, "worker-1", p.WorkerID)
}

func TestProcessJobIgnoresDuplicates(t *testing.T) {
	runner := newRunner(t, time.Hour, &collectingSink{})
	processor := NewJobProcessor(runner, zap.NewNop(), "worker-1")
	msg := &dto.JobMessage{ID: "job-1"}

	require.NoError(t, processor.ProcessJob(context.Background(), msg))
	require.NoError(t, processor.ProcessJob(context.Background(), msg))
	assert.Equal(t, 1, runner.Running())

	assert.Error(t, processor.ProcessJob(context.Background(), &dto.JobMessage{}))
}

func TestCancelJobStopsRunningJob(t *testing.T) {
	sink := &collectingSink{}
	runner := newRunner(t, time.Hour, sink)
	processor := NewJobProcessor(runner, zap.NewNop(), "worker-1")
	ctx := context.Background()

	require.NoError(t, processor.ProcessJob(ctx, &dto.JobMessage{ID: "job-1"}))
	require.True(t, runner.IsRunning("job-1"))

	require.NoError(t, processor.CancelJob(ctx, &dto.CancelMessage{JobID: "job-1"}))
	assert.False(t, runner.IsRunning("job-1"))

	require.NoError(t, processor.CancelJob(ctx, &dto.CancelMessage{JobID: "unknown"}))

	time.Sleep(20 * time.Millisecond)
	p, ok := sink.last()
	if ok {
		assert.NotEqual(t, entity.StatusCompleted, p.Status)
	}
}
