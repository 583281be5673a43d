package processing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu        sync.Mutex
	reports   []entity.Progress
	completed chan string
	err       error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{completed: make(chan string, 16)}
}

func (s *recordingSink) Report(ctx context.Context, p *entity.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, *p)
	if p.Status == entity.StatusCompleted {
		s.completed <- p.JobID
	}
	return nil
}

func (s *recordingSink) forJob(jobID string) []entity.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Progress
	for _, p := range s.reports {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out
}

func TestSimulatorRunReportsEveryStep(t *testing.T) {
	sink := newRecordingSink()
	sim := NewSimulator(time.Microsecond, 0, WithWorkerID("w1"))

	require.NoError(t, sim.Run(context.Background(), "job", sink))

	reports := sink.forJob("job")
	require.Len(t, reports, 5*11+1)

	first := reports[0]
	assert.Equal(t, entity.StatusProcessing, first.Status)
	assert.Equal(t, 0.0, first.Progress)
	assert.Equal(t, DefaultSteps[0], first.CurrentStep)
	assert.Equal(t, "w1", first.WorkerID)

	last := reports[len(reports)-1]
	assert.Equal(t, entity.StatusCompleted, last.Status)
	assert.Equal(t, 100.0, last.Progress)
	assert.Equal(t, DoneStep, last.CurrentStep)

	reached := map[string]float64{}
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i].Progress, reports[i-1].Progress)
		reached[reports[i-1].CurrentStep] = reports[i-1].Progress
	}
	for i, step := range DefaultSteps {
		assert.Equal(t, StepTarget(i, len(DefaultSteps)), reached[step], step)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := ProgressSinkFunc(func(ctx context.Context, p *entity.Progress) error {
		assert.NotEqual(t, entity.StatusCompleted, p.Status)
		cancel()
		return nil
	})

	err := NewSimulator(time.Millisecond, time.Millisecond).Run(ctx, "job", sink)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatorSinkError(t *testing.T) {
	sink := newRecordingSink()
	sink.err = errors.New("store down")

	err := NewSimulator(time.Microsecond, 0).Run(context.Background(), "job", sink)
	assert.ErrorContains(t, err, "store down")
}

func TestSimulatorETA(t *testing.T) {
	sim := NewSimulator(50*time.Millisecond, 1500*time.Millisecond)

	assert.Equal(t, 10, sim.eta(0, 0))
	assert.Equal(t, 2, sim.eta(4, 100))
	assert.GreaterOrEqual(t, sim.eta(1, 30), sim.eta(2, 50))
}

func TestStepTarget(t *testing.T) {
	assert.Equal(t, 20.0, StepTarget(0, 5))
	assert.Equal(t, 100.0, StepTarget(4, 5))
}
