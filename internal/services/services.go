package services

import (
	"fmt"
	"time"

	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services/processing"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"go.uber.org/zap"
)

type Dependencies struct {
	Jobs    repositories.JobRepositoryInterface
	Results repositories.ResultRepositoryInterface
	// Dispatcher is nil when processing runs in this process.
	Dispatcher repositories.JobDispatcherInterface
	Validator  *validator.Validator

	Workers   int
	Tick      time.Duration
	StepPause time.Duration
	MaxAge    time.Duration
}

type Services struct {
	log         *zap.Logger
	JobsService *JobsService
	Runner      *processing.Runner
}

func NewServices(logger *zap.Logger, deps Dependencies) (*Services, error) {
	s := &Services{log: logger}

	jobs := NewJobsService(deps.Jobs, deps.Results, deps.Dispatcher, deps.Validator, deps.MaxAge, logger)

	if deps.Dispatcher == nil {
		sim := processing.NewSimulator(deps.Tick, deps.StepPause, processing.WithWorkerID("local"))
		runner, err := processing.NewRunner(deps.Workers, sim, jobs, logger)
		if err != nil {
			return nil, fmt.Errorf("create runner: %w", err)
		}
		jobs.dispatcher = runner
		s.Runner = runner
		logger.Info("processing runs in-process", zap.Int("workers", deps.Workers))
	}

	s.JobsService = jobs
	return s, nil
}

func (s *Services) Close() error {
	if s.Runner != nil {
		return s.Runner.Close()
	}
	return nil
}
