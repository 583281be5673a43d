package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/natsconn"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services/processing"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

var _ processing.ProgressSink = (*NATSProgressPublisher)(nil)

type ProgressPublisherInterface interface {
	processing.ProgressSink
	Close() error
}

// NATSProgressPublisher sends progress reports back to the API server.
type NATSProgressPublisher struct {
	js      jetstream.JetStream
	nc      *nats.Conn
	subject string
	log     *zap.Logger
}

func NewNATSProgressPublisher(ctx context.Context, log *zap.Logger, natsURL, streamName string) (*NATSProgressPublisher, error) {
	nc, js, _, err := natsconn.Open(ctx, log, natsURL, streamName)
	if err != nil {
		return nil, err
	}

	log.Info("NATS JetStream publisher initialized successfully", zap.String("stream", streamName))

	return &NATSProgressPublisher{
		js:      js,
		nc:      nc,
		subject: natsconn.SubjectProgress(streamName),
		log:     log,
	}, nil
}

func (p *NATSProgressPublisher) Report(ctx context.Context, progress *entity.Progress) error {
	if progress.ReportedAt == 0 {
		progress.ReportedAt = time.Now().UnixMilli()
	}

	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.js.Publish(pubCtx, p.subject, data); err != nil {
		p.log.Error("Failed to publish progress",
			zap.String("job_id", progress.JobID),
			zap.String("subject", p.subject),
			zap.Error(err))
		return fmt.Errorf("failed to publish progress to NATS: %w", err)
	}

	if progress.Status.IsTerminal() {
		p.log.Info("Published final progress",
			zap.String("job_id", progress.JobID),
			zap.String("status", string(progress.Status)),
			zap.String("worker_id", progress.WorkerID))
	}
	return nil
}

func (p *NATSProgressPublisher) Close() error {
	if p.nc != nil && !p.nc.IsClosed() {
		p.nc.Close()
	}
	return nil
}
