// Package processing runs the simulated OCR pipeline. Nothing is recognised;
// a job walks through fixed steps on a timer and reports its progress.
package processing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
)

// DefaultSteps are the pipeline stages shown to the user, in order.
var DefaultSteps = []string{
	"Uploading file",
	"Analyzing PDF",
	"Extracting text",
	"Analyzing layout",
	"Generating result",
}

const (
	DoneStep     = "Done"
	progressStep = 2.0
)

type ProgressSink interface {
	Report(ctx context.Context, progress *entity.Progress) error
}

type ProgressSinkFunc func(ctx context.Context, progress *entity.Progress) error

func (f ProgressSinkFunc) Report(ctx context.Context, progress *entity.Progress) error {
	return f(ctx, progress)
}

type Simulator struct {
	steps     []string
	tick      time.Duration
	stepPause time.Duration
	workerID  string
	now       func() time.Time
}

type SimulatorOption func(*Simulator)

func WithWorkerID(id string) SimulatorOption {
	return func(s *Simulator) { s.workerID = id }
}

func WithSteps(steps []string) SimulatorOption {
	return func(s *Simulator) { s.steps = steps }
}

func NewSimulator(tick, stepPause time.Duration, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		steps:     DefaultSteps,
		tick:      tick,
		stepPause: stepPause,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Steps() []string {
	return s.steps
}

// StepTarget is the progress a job reaches when step i (0-based) is done.
func StepTarget(i, total int) float64 {
	return float64((i+1)*100) / float64(total)
}

// Run walks jobID through every step. Progress for step i climbs by 2 per
// tick up to StepTarget(i) and then holds for stepPause. A cancelled context
// stops the run without a final report.
func (s *Simulator) Run(ctx context.Context, jobID string, sink ProgressSink) error {
	progress := 0.0

	for i, step := range s.steps {
		target := StepTarget(i, len(s.steps))

		for p := math.Floor(progress); p <= target; p += progressStep {
			progress = p
			if err := s.report(ctx, sink, jobID, entity.StatusProcessing, progress, step, s.eta(i, progress)); err != nil {
				return err
			}
			if err := sleep(ctx, s.tick); err != nil {
				return err
			}
		}

		if err := sleep(ctx, s.stepPause); err != nil {
			return err
		}
	}

	return s.report(ctx, sink, jobID, entity.StatusCompleted, 100, DoneStep, 0)
}

// eta estimates the seconds left: the remaining climb ticks plus the pauses of
// the current and later steps.
func (s *Simulator) eta(step int, progress float64) int {
	ticks := math.Ceil((100 - progress) / progressStep)
	pauses := float64(len(s.steps) - step)
	remaining := time.Duration(ticks)*s.tick + time.Duration(pauses)*s.stepPause
	return int(math.Ceil(remaining.Seconds()))
}

func (s *Simulator) report(ctx context.Context, sink ProgressSink, jobID string, status entity.JobStatus, progress float64, step string, eta int) error {
	err := sink.Report(ctx, &entity.Progress{
		JobID:         jobID,
		WorkerID:      s.workerID,
		Status:        status,
		Progress:      progress,
		CurrentStep:   step,
		EstimatedTime: eta,
		ReportedAt:    s.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("report progress: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
