// Package ocr drives a job on the OCR backend: upload, status polling until a
// terminal state, result retrieval and cancellation.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"go.uber.org/zap"
)

var ErrAlreadyPolling = errors.New("job is already being polled")

const (
	defaultFailureMessage = "an error occurred during processing"
	cancelledMessage      = "job was cancelled"
)

// APIClientInterface is the part of the backend API the service needs.
type APIClientInterface interface {
	UploadPDF(ctx context.Context, name string, data []byte) (*dto.UploadResponse, error)
	GetJobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error)
	GetJobResult(ctx context.Context, jobID string) (*dto.OCRResult, error)
	CancelJob(ctx context.Context, jobID string) (bool, error)
}

// JobError reports a job that ended failed or cancelled.
type JobError struct {
	JobID   string
	Status  entity.JobStatus
	Message string
}

func (e *JobError) Error() string {
	return e.Message
}

// Callbacks receive the events of one poll loop. Any of them may be nil.
// They run on the loop goroutine.
type Callbacks struct {
	OnProgress func(status *dto.JobStatus)
	OnComplete func(result *dto.OCRResult)
	OnError    func(err error)
}

type poller struct {
	parent  context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
}

// stop reports whether this call was the one that stopped the loop.
func (p *poller) stop() bool {
	if !p.stopped.CompareAndSwap(false, true) {
		return false
	}
	p.cancel()
	return true
}

type Service struct {
	api       APIClientInterface
	validator *validator.Validator
	interval  time.Duration
	polling   map[string]*poller
	pollingMu sync.Mutex
	wg        sync.WaitGroup
	logger    *zap.Logger
}

type Option func(*Service)

func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

func NewService(api APIClientInterface, v *validator.Validator, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		api:       api,
		validator: v,
		interval:  config.DefaultPollInterval,
		polling:   make(map[string]*poller),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessFile validates a PDF locally, uploads it and returns the job id.
func (s *Service) ProcessFile(ctx context.Context, name string, data []byte) (string, error) {
	if err := s.validator.Validate(name, "", int64(len(data)), data); err != nil {
		return "", err
	}

	resp, err := s.api.UploadPDF(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("upload %s: backend returned no job id", name)
	}

	s.logger.Info("file uploaded", zap.String("job_id", resp.JobID), zap.String("file_name", name))
	return resp.JobID, nil
}

// PollJobStatus starts a background loop that fetches the job status right
// away and then every interval until the job completes, fails, is cancelled
// or a request fails. The loop is registered before the first request.
func (s *Service) PollJobStatus(ctx context.Context, jobID string, cb Callbacks) error {
	s.pollingMu.Lock()
	if _, exists := s.polling[jobID]; exists {
		s.pollingMu.Unlock()
		return ErrAlreadyPolling
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p := &poller{parent: ctx, cancel: cancel}
	s.polling[jobID] = p
	s.wg.Add(1)
	s.pollingMu.Unlock()

	s.logger.Debug("polling started", zap.String("job_id", jobID), zap.Duration("interval", s.interval))
	go s.loop(loopCtx, jobID, p, cb)
	return nil
}

func (s *Service) loop(ctx context.Context, jobID string, p *poller, cb Callbacks) {
	defer s.wg.Done()
	defer s.forget(jobID, p)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if s.poll(ctx, jobID, p, cb) {
			return
		}

		select {
		case <-ctx.Done():
			p.stop()
			return
		case <-ticker.C:
		}
	}
}

// poll performs one status request and reports whether the loop is over.
func (s *Service) poll(ctx context.Context, jobID string, p *poller, cb Callbacks) bool {
	status, err := s.api.GetJobStatus(ctx, jobID)
	if p.stopped.Load() || ctx.Err() != nil {
		p.stop()
		return true
	}
	if err != nil {
		if !s.finish(jobID, p) {
			return true
		}
		s.logger.Warn("job status request failed", zap.String("job_id", jobID), zap.Error(err))
		cb.fail(fmt.Errorf("get job status: %w", err))
		return true
	}

	if p.stopped.Load() {
		return true
	}
	cb.progress(status)

	switch status.Status {
	case entity.StatusCompleted:
		if !s.finish(jobID, p) {
			return true
		}
		result, err := s.api.GetJobResult(p.parent, jobID)
		if err != nil {
			cb.fail(fmt.Errorf("get job result: %w", err))
			return true
		}
		s.logger.Info("job completed", zap.String("job_id", jobID))
		cb.complete(result)
		return true
	case entity.StatusFailed, entity.StatusCancelled:
		if !s.finish(jobID, p) {
			return true
		}
		msg := status.Error
		if msg == "" {
			msg = defaultFailureMessage
			if status.Status == entity.StatusCancelled {
				msg = cancelledMessage
			}
		}
		s.logger.Info("job ended", zap.String("job_id", jobID), zap.String("status", string(status.Status)))
		cb.fail(&JobError{JobID: jobID, Status: status.Status, Message: msg})
		return true
	}

	return p.stopped.Load()
}

// finish stops the loop from inside and reports whether it was still live.
func (s *Service) finish(jobID string, p *poller) bool {
	s.forget(jobID, p)
	return p.stop()
}

func (s *Service) forget(jobID string, p *poller) {
	s.pollingMu.Lock()
	if cur, ok := s.polling[jobID]; ok && cur == p {
		delete(s.polling, jobID)
	}
	s.pollingMu.Unlock()
}

// StopPolling ends the loop of jobID without waiting for it. Once it returns
// no further requests are made and every later dispatch point sees the loop
// as stopped. A callback whose dispatch had already begun may still run. It
// reports whether a loop was stopped.
func (s *Service) StopPolling(jobID string) bool {
	s.pollingMu.Lock()
	p, ok := s.polling[jobID]
	if ok {
		delete(s.polling, jobID)
	}
	s.pollingMu.Unlock()

	if !ok {
		return false
	}
	if p.stop() {
		s.logger.Debug("polling stopped", zap.String("job_id", jobID))
	}
	return true
}

func (s *Service) IsPolling(jobID string) bool {
	s.pollingMu.Lock()
	defer s.pollingMu.Unlock()

	_, ok := s.polling[jobID]
	return ok
}

// Active returns the number of live poll loops.
func (s *Service) Active() int {
	s.pollingMu.Lock()
	defer s.pollingMu.Unlock()

	return len(s.polling)
}

// CancelJob stops polling and asks the backend to cancel the job. It reports
// true only when the backend confirms the cancellation.
func (s *Service) CancelJob(ctx context.Context, jobID string) (bool, error) {
	s.StopPolling(jobID)

	cancelled, err := s.api.CancelJob(ctx, jobID)
	if err != nil {
		return false, fmt.Errorf("cancel job %s: %w", jobID, err)
	}
	return cancelled, nil
}

// Cleanup stops every loop and waits for all of them to exit. It must not be
// called from a callback.
func (s *Service) Cleanup() {
	s.pollingMu.Lock()
	pollers := make([]*poller, 0, len(s.polling))
	for id, p := range s.polling {
		pollers = append(pollers, p)
		delete(s.polling, id)
	}
	s.pollingMu.Unlock()

	for _, p := range pollers {
		p.stop()
	}
	s.wg.Wait()
}

func (cb Callbacks) progress(status *dto.JobStatus) {
	if cb.OnProgress != nil {
		cb.OnProgress(status)
	}
}

func (cb Callbacks) complete(result *dto.OCRResult) {
	if cb.OnComplete != nil {
		cb.OnComplete(result)
	}
}

func (cb Callbacks) fail(err error) {
	if cb.OnError != nil {
		cb.OnError(err)
	}
}
