package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/natsconn"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

var _ repositories.ProgressSubscriberInterface = (*NATSProgressSubscriber)(nil)

// NATSProgressSubscriber consumes progress reports published by workers.
type NATSProgressSubscriber struct {
	nc      *nats.Conn
	log     *zap.Logger
	subject string
	sub     jetstream.Consumer
}

func NewNATSProgressSubscriber(ctx context.Context, log *zap.Logger, natsURL, streamName string) (*NATSProgressSubscriber, error) {
	nc, _, stream, err := natsconn.Open(ctx, log, natsURL, streamName)
	if err != nil {
		return nil, err
	}

	subject := natsconn.SubjectProgress(streamName)
	consumerConfig := jetstream.ConsumerConfig{
		FilterSubjects: []string{subject},
		Durable:        "pdfocr-api-progress",
		AckPolicy:      jetstream.AckExplicitPolicy,
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, consumerConfig)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	log.Info("NATS JetStream subscriber initialized successfully", zap.String("subject", subject))

	return &NATSProgressSubscriber{
		nc:      nc,
		log:     log,
		subject: subject,
		sub:     consumer,
	}, nil
}

// Subscribe blocks until ctx is cancelled. Progress for one job must be
// applied in order, so messages are handled on the consumer goroutine.
func (s *NATSProgressSubscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, progress *entity.Progress) error) error {
	consCtx, err := s.sub.Consume(func(msg jetstream.Msg) {
		defer func() { _ = msg.Ack() }()

		var progress entity.Progress
		if err := json.Unmarshal(msg.Data(), &progress); err != nil {
			s.log.Error("Failed to unmarshal progress",
				zap.Error(err),
				zap.String("subject", msg.Subject()))
			return
		}

		if err := handler(ctx, &progress); err != nil {
			s.log.Error("Failed to handle progress",
				zap.Error(err),
				zap.String("job_id", progress.JobID),
				zap.String("worker_id", progress.WorkerID))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer context: %w", err)
	}

	s.log.Info("Subscribed to progress reports", zap.String("subject", s.subject))

	<-ctx.Done()
	consCtx.Stop()
	s.log.Info("NATS subscriber stopped")

	return nil
}

func (s *NATSProgressSubscriber) Close() error {
	if s.nc != nil && !s.nc.IsClosed() {
		s.nc.Close()
	}
	return nil
}
