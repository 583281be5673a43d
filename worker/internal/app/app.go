package app

import (
	"context"
	"fmt"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services/processing"
	"github.com/chaemni0706/PaddleOCR-Interface/worker/internal/services"
	"github.com/chaemni0706/PaddleOCR-Interface/worker/internal/services/publisher"
	"github.com/chaemni0706/PaddleOCR-Interface/worker/internal/services/subscriber"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func Run(ctx context.Context, log *zap.Logger, cfg config.ServiceConfig) error {
	if cfg.NATSConfig.URL == "" {
		return fmt.Errorf("nats.url is required to run a worker")
	}

	workerID := uuid.NewString()
	log.Info("Generated worker ID", zap.String("worker_id", workerID))

	progressPublisher, err := publisher.NewNATSProgressPublisher(ctx, log, cfg.NATSConfig.URL, cfg.NATSConfig.Stream)
	if err != nil {
		log.Error("Failed to create progress publisher", zap.Error(err))
		return fmt.Errorf("create progress publisher: %w", err)
	}
	defer progressPublisher.Close()

	jobSubscriber, err := subscriber.NewNATSJobSubscriber(ctx, log, cfg.NATSConfig.URL, cfg.NATSConfig.Stream, workerID)
	if err != nil {
		log.Error("Failed to create job subscriber", zap.Error(err))
		return fmt.Errorf("create job subscriber: %w", err)
	}
	defer jobSubscriber.Close()

	sim := processing.NewSimulator(cfg.ProcessingConfig.Tick, cfg.ProcessingConfig.StepPause, processing.WithWorkerID(workerID))
	runner, err := processing.NewRunner(cfg.ProcessingConfig.Workers, sim, progressPublisher, log)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	jobProcessor := services.NewJobProcessor(runner, log, workerID)

	log.Info("Worker started",
		zap.String("worker_id", workerID),
		zap.String("nats_url", cfg.NATSConfig.URL),
		zap.Int("workers", cfg.ProcessingConfig.Workers))

	if err := jobSubscriber.Subscribe(ctx, jobProcessor.ProcessJob, jobProcessor.CancelJob); err != nil {
		log.Error("Failed to subscribe to jobs", zap.Error(err))
		return fmt.Errorf("subscribe to jobs: %w", err)
	}

	log.Info("Worker stopped", zap.String("worker_id", workerID))
	return nil
}
