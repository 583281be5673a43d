package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/natsconn"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

var _ repositories.JobDispatcherInterface = (*NATSJobPublisher)(nil)

// NATSJobPublisher dispatches jobs and cancellations to processing workers.
type NATSJobPublisher struct {
	js         jetstream.JetStream
	nc         *nats.Conn
	streamName string
	log        *zap.Logger
}

func NewNATSJobPublisher(ctx context.Context, log *zap.Logger, natsURL, streamName string) (*NATSJobPublisher, error) {
	nc, js, _, err := natsconn.Open(ctx, log, natsURL, streamName)
	if err != nil {
		return nil, err
	}

	log.Info("NATS JetStream publisher initialized successfully", zap.String("stream", streamName))

	return &NATSJobPublisher{
		js:         js,
		nc:         nc,
		streamName: streamName,
		log:        log,
	}, nil
}

func (p *NATSJobPublisher) Close() error {
	if p.nc != nil && !p.nc.IsClosed() {
		p.nc.Close()
	}
	return nil
}

func (p *NATSJobPublisher) Dispatch(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(dto.NewJobMessage(job))
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	subject := natsconn.SubjectJobs(p.streamName)

	p.log.Debug("Attempting to publish job",
		zap.String("job_id", job.ID),
		zap.String("subject", subject),
		zap.Int("data_size", len(data)))

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ack, err := p.js.Publish(publishCtx, subject, data)
	if err != nil {
		p.log.Error("Failed to publish job to NATS",
			zap.String("job_id", job.ID),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to publish job to NATS: %w", err)
	}

	p.log.Info("Published job to NATS",
		zap.String("job_id", job.ID),
		zap.String("subject", subject),
		zap.Uint64("stream_sequence", ack.Sequence))

	return nil
}

// Cancel broadcasts the cancellation to every connected worker.
func (p *NATSJobPublisher) Cancel(ctx context.Context, jobID string) error {
	data, err := json.Marshal(dto.CancelMessage{JobID: jobID})
	if err != nil {
		return fmt.Errorf("failed to marshal cancel message: %w", err)
	}

	subject := natsconn.SubjectCancel(p.streamName)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish cancel: %w", err)
	}
	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.nc.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("failed to flush cancel: %w", err)
	}

	p.log.Info("Published cancel", zap.String("job_id", jobID), zap.String("subject", subject))
	return nil
}
