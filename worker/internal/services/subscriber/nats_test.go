package subscriber

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/publisher"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/testutil/natstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type received struct {
	mu        sync.Mutex
	jobs      []dto.JobMessage
	cancelled []string
}

func (r *received) onJob(ctx context.Context, job *dto.JobMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, *job)
	return nil
}

func (r *received) onCancel(ctx context.Context, msg *dto.CancelMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, msg.JobID)
	return nil
}

func (r *received) snapshot() ([]dto.JobMessage, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dto.JobMessage(nil), r.jobs...), append([]string(nil), r.cancelled...)
}

func TestSubscribeReceivesDispatchedJobsAndCancels(t *testing.T) {
	url := natstest.RunJetStream(t)
	log := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobPublisher, err := publisher.NewNATSJobPublisher(ctx, log, url, "OCR")
	require.NoError(t, err)
	defer jobPublisher.Close()

	jobSubscriber, err := NewNATSJobSubscriber(ctx, log, url, "OCR", "worker-1")
	require.NoError(t, err)
	defer jobSubscriber.Close()

	got := &received{}
	done := make(chan error, 1)
	go func() { done <- jobSubscriber.Subscribe(ctx, got.onJob, got.onCancel) }()

	job := &entity.Job{
		ID:        "job-1",
		FileName:  "report.pdf",
		FileSize:  2048,
		PageCount: 3,
		Status:    entity.StatusPending,
		CreatedAt: 100,
	}
	require.NoError(t, jobPublisher.Dispatch(ctx, job))

	require.Eventually(t, func() bool {
		jobs, _ := got.snapshot()
		return len(jobs) == 1
	}, 5*time.Second, 10*time.Millisecond)

	jobs, _ := got.snapshot()
	assert.Equal(t, "job-1", jobs[0].ID)
	assert.Equal(t, "report.pdf", jobs[0].FileName)
	assert.Equal(t, int64(2048), jobs[0].FileSize)
	assert.Equal(t, 3, jobs[0].PageCount)

	// cancels are not persisted, so resend until the subscription is live
	require.Eventually(t, func() bool {
		_ = jobPublisher.Cancel(ctx, "job-1")
		_, cancelled := got.snapshot()
		return len(cancelled) > 0
	}, 5*time.Second, 50*time.Millisecond)

	_, cancelled := got.snapshot()
	assert.Equal(t, "job-1", cancelled[0])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestSubscribeSharesJobsBetweenWorkers(t *testing.T) {
	url := natstest.RunJetStream(t)
	log := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobPublisher, err := publisher.NewNATSJobPublisher(ctx, log, url, "OCR")
	require.NoError(t, err)
	defer jobPublisher.Close()

	got := &received{}
	for _, id := range []string{"worker-1", "worker-2"} {
		s, err := NewNATSJobSubscriber(ctx, log, url, "OCR", id)
		require.NoError(t, err)
		defer s.Close()
		go func() { _ = s.Subscribe(ctx, got.onJob, got.onCancel) }()
	}

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, jobPublisher.Dispatch(ctx, &entity.Job{ID: id, FileName: id + ".pdf"}))
	}

	require.Eventually(t, func() bool {
		jobs, _ := got.snapshot()
		return len(jobs) >= 4
	}, 5*time.Second, 10*time.Millisecond)

	// give a duplicate delivery time to show up
	time.Sleep(100 * time.Millisecond)
	jobs, _ := got.snapshot()
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids)
}
