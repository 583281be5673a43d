package processing

import (
	"context"
	"testing"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRunner(t *testing.T, workers int, sim *Simulator, sink ProgressSink) *Runner {
	t.Helper()
	r, err := NewRunner(workers, sim, sink, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func waitCompleted(t *testing.T, sink *recordingSink, jobID string) {
	t.Helper()
	select {
	case id := <-sink.completed:
		require.Equal(t, jobID, id)
	case <-time.After(5 * time.Second):
		t.Fatalf("job %s did not complete", jobID)
	}
}

func TestRunnerCompletesJob(t *testing.T) {
	sink := newRecordingSink()
	r := newRunner(t, 2, NewSimulator(time.Microsecond, 0), sink)

	require.NoError(t, r.Dispatch(context.Background(), &entity.Job{ID: "a"}))
	waitCompleted(t, sink, "a")

	assert.Eventually(t, func() bool { return !r.IsRunning("a") }, time.Second, 5*time.Millisecond)
}

func TestRunnerRejectsDoubleDispatch(t *testing.T) {
	sink := newRecordingSink()
	r := newRunner(t, 2, NewSimulator(10*time.Millisecond, time.Second), sink)

	require.NoError(t, r.Dispatch(context.Background(), &entity.Job{ID: "a"}))
	assert.ErrorIs(t, r.Dispatch(context.Background(), &entity.Job{ID: "a"}), ErrAlreadyRunning)
	assert.Equal(t, 1, r.Running())
}

func TestRunnerCancel(t *testing.T) {
	sink := newRecordingSink()
	r := newRunner(t, 1, NewSimulator(10*time.Millisecond, time.Second), sink)

	require.NoError(t, r.Dispatch(context.Background(), &entity.Job{ID: "a"}))
	require.Eventually(t, func() bool { return len(sink.forJob("a")) > 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Cancel(context.Background(), "a"))
	require.NoError(t, r.Cancel(context.Background(), "a"))
	assert.False(t, r.IsRunning("a"))

	// the freed worker picks up the next job
	require.NoError(t, r.Dispatch(context.Background(), &entity.Job{ID: "b"}))
	require.Eventually(t, func() bool { return len(sink.forJob("b")) > 0 }, time.Second, 5*time.Millisecond)

	for _, p := range sink.forJob("a") {
		assert.NotEqual(t, entity.StatusCompleted, p.Status)
	}
}

func TestRunnerQueuesWhenPoolIsBusy(t *testing.T) {
	sink := newRecordingSink()
	r := newRunner(t, 1, NewSimulator(10*time.Millisecond, time.Second), sink)

	require.NoError(t, r.Dispatch(context.Background(), &entity.Job{ID: "a"}))
	require.NoError(t, r.Dispatch(context.Background(), &entity.Job{ID: "b"}))

	require.Eventually(t, func() bool { return len(sink.forJob("a")) > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sink.forJob("b"), "second job must wait for a free worker")
	assert.True(t, r.IsRunning("b"))
}
