package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/natsconn"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// workersConsumer is shared by every worker so each job is delivered once.
const workersConsumer = "pdfocr-workers"

type JobHandler func(ctx context.Context, job *dto.JobMessage) error

type CancelHandler func(ctx context.Context, msg *dto.CancelMessage) error

type JobSubscriberInterface interface {
	Subscribe(ctx context.Context, onJob JobHandler, onCancel CancelHandler) error
	Close() error
}

type NATSJobSubscriber struct {
	nc            *nats.Conn
	log           *zap.Logger
	sub           jetstream.Consumer
	jobsSubject   string
	cancelSubject string
	workerID      string
}

func NewNATSJobSubscriber(ctx context.Context, log *zap.Logger, natsURL, streamName, workerID string) (*NATSJobSubscriber, error) {
	nc, _, stream, err := natsconn.Open(ctx, log, natsURL, streamName)
	if err != nil {
		return nil, err
	}

	jobsSubject := natsconn.SubjectJobs(streamName)
	consumerConfig := jetstream.ConsumerConfig{
		FilterSubjects: []string{jobsSubject},
		Durable:        workersConsumer,
		AckPolicy:      jetstream.AckExplicitPolicy,
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, consumerConfig)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	log.Info("NATS JetStream subscriber initialized successfully",
		zap.String("worker_id", workerID),
		zap.String("subject", jobsSubject))

	return &NATSJobSubscriber{
		nc:            nc,
		log:           log,
		sub:           consumer,
		jobsSubject:   jobsSubject,
		cancelSubject: natsconn.SubjectCancel(streamName),
		workerID:      workerID,
	}, nil
}

// Subscribe blocks until ctx is cancelled.
func (s *NATSJobSubscriber) Subscribe(ctx context.Context, onJob JobHandler, onCancel CancelHandler) error {
	cancelSub, err := s.nc.Subscribe(s.cancelSubject, func(msg *nats.Msg) {
		var cancel dto.CancelMessage
		if err := json.Unmarshal(msg.Data, &cancel); err != nil {
			s.log.Error("Failed to unmarshal cancel request", zap.Error(err))
			return
		}
		if err := onCancel(ctx, &cancel); err != nil {
			s.log.Error("Failed to handle cancel request",
				zap.Error(err),
				zap.String("job_id", cancel.JobID))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.cancelSubject, err)
	}
	defer func() { _ = cancelSub.Unsubscribe() }()

	consCtx, err := s.sub.Consume(func(msg jetstream.Msg) {
		defer func() { _ = msg.Ack() }()

		var job dto.JobMessage
		if err := json.Unmarshal(msg.Data(), &job); err != nil {
			s.log.Error("Failed to unmarshal job",
				zap.Error(err),
				zap.String("subject", msg.Subject()))
			return
		}

		if err := onJob(ctx, &job); err != nil {
			s.log.Error("Failed to handle job",
				zap.Error(err),
				zap.String("job_id", job.ID),
				zap.String("subject", msg.Subject()))
			return
		}

		s.log.Info("Job received and handler called",
			zap.String("job_id", job.ID),
			zap.String("worker_id", s.workerID))
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer context: %w", err)
	}

	s.log.Info("Subscribed to jobs",
		zap.String("jobs_subject", s.jobsSubject),
		zap.String("cancel_subject", s.cancelSubject))

	<-ctx.Done()
	consCtx.Stop()
	s.log.Info("NATS subscriber stopped")

	return nil
}

func (s *NATSJobSubscriber) Close() error {
	if s.nc != nil && !s.nc.IsClosed() {
		s.nc.Close()
	}
	return nil
}
