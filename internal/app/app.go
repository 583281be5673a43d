package app

import (
	"context"
	"fmt"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	httpserver "github.com/chaemni0706/PaddleOCR-Interface/internal/http-server"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/http-server/handlers"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/inmemory"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/postgres"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/publisher"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/redis"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/repositories/subscriber"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"github.com/chaemni0706/PaddleOCR-Interface/pkg/lib/logger/zaplogger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type storage struct {
	jobs    repositories.JobRepositoryInterface
	results repositories.ResultRepositoryInterface
	close   func()
}

func openStorage(ctx context.Context, log *zap.Logger, cfg config.ServiceConfig) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.NewDatabase(ctx, cfg.DbConfig.DBConn)
		if err != nil {
			log.Error("Failed to connect to database", zaplogger.Err(err))
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		pool := db.GetPool()
		return &storage{
			jobs:    postgres.NewJobsRepository(pool),
			results: postgres.NewResultsRepository(pool),
			close:   db.Close,
		}, nil

	case config.StorageRedis:
		rc := cfg.RedisConfig
		client, err := redis.NewClient(ctx, rc.Addr, rc.DB)
		if err != nil {
			log.Error("Failed to connect to redis", zaplogger.Err(err))
			return nil, err
		}
		return &storage{
			jobs:    redis.NewJobsRepository(client, rc.KeyPrefix, rc.TTL),
			results: redis.NewResultsRepository(client, rc.KeyPrefix, rc.TTL),
			close:   func() { _ = client.Close() },
		}, nil

	default:
		return &storage{
			jobs:    inmemory.NewJobsRepository(),
			results: inmemory.NewResultsRepository(),
			close:   func() {},
		}, nil
	}
}

// Run starts the API server and, depending on cfg, the NATS progress
// consumer. It returns once ctx is cancelled and everything has stopped.
func Run(ctx context.Context, log *zap.Logger, cfg config.ServiceConfig) error {
	gin.SetMode(gin.ReleaseMode)

	store, err := openStorage(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer store.close()
	log.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	deps := services.Dependencies{
		Jobs:      store.jobs,
		Results:   store.results,
		Validator: validator.New(cfg.UploadConfig.MaxSize),
		Workers:   cfg.ProcessingConfig.Workers,
		Tick:      cfg.ProcessingConfig.Tick,
		StepPause: cfg.ProcessingConfig.StepPause,
		MaxAge:    cfg.RetentionConfig.MaxAge,
	}

	var progress repositories.ProgressSubscriberInterface
	if cfg.NATSConfig.URL != "" {
		jobPublisher, err := publisher.NewNATSJobPublisher(ctx, log, cfg.NATSConfig.URL, cfg.NATSConfig.Stream)
		if err != nil {
			log.Error("Failed to create job publisher", zaplogger.Err(err))
			return fmt.Errorf("create job publisher: %w", err)
		}
		defer jobPublisher.Close()
		deps.Dispatcher = jobPublisher

		progressSubscriber, err := subscriber.NewNATSProgressSubscriber(ctx, log, cfg.NATSConfig.URL, cfg.NATSConfig.Stream)
		if err != nil {
			log.Error("Failed to create progress subscriber", zaplogger.Err(err))
			return fmt.Errorf("create progress subscriber: %w", err)
		}
		defer progressSubscriber.Close()
		progress = progressSubscriber
	}

	svcs, err := services.NewServices(log, deps)
	if err != nil {
		return fmt.Errorf("create services: %w", err)
	}
	defer svcs.Close()

	h := handlers.NewHandlers(log, svcs, handlers.Options{
		Version:       cfg.Version,
		PollInterval:  cfg.ClientConfig.PollInterval,
		RedirectDelay: config.DefaultRedirectDelayMs * time.Millisecond,
	})

	server, err := httpserver.NewServer(log, h, cfg)
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	if progress != nil {
		g.Go(func() error {
			return progress.Subscribe(gctx, svcs.JobsService.HandleProgress)
		})
	}

	if cfg.RetentionConfig.MaxAge > 0 && cfg.RetentionConfig.Schedule != "" {
		janitor := services.NewJanitor(svcs.JobsService, cfg.RetentionConfig.Schedule, log)
		g.Go(func() error {
			return janitor.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error", zaplogger.Err(err))
		return err
	}
	return nil
}
