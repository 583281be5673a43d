// Package natsconn holds the connection and stream setup shared by the API
// server and the processing worker.
package natsconn

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

const (
	maxRetries        = 10
	initialRetryDelay = 3 * time.Second
)

// Jobs and progress are persisted in the stream. Cancellations are broadcast
// over core NATS so every worker sees them.
func SubjectJobs(stream string) string     { return stream + ".jobs" }
func SubjectCancel(stream string) string   { return stream + ".cancel" }
func SubjectProgress(stream string) string { return stream + ".progress" }

// Connect dials NATS, retrying with a growing delay until maxRetries is hit
// or ctx is done.
func Connect(ctx context.Context, log *zap.Logger, natsURL string) (*nats.Conn, error) {
	retryDelay := initialRetryDelay
	var nc *nats.Conn
	var err error

	for i := 0; i < maxRetries; i++ {
		opts := []nats.Option{
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2 * time.Second),
			nats.Timeout(10 * time.Second),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				if err != nil {
					log.Warn("NATS disconnected", zap.Error(err))
				}
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Info("NATS reconnected", zap.String("url", natsURL))
			}),
		}

		nc, err = nats.Connect(natsURL, opts...)
		if err == nil {
			break
		}

		log.Warn("Failed to connect to NATS, retrying...",
			zap.String("url", natsURL),
			zap.Error(err),
			zap.Int("attempt", i+1),
			zap.Duration("retry_delay", retryDelay))

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			retryDelay = time.Duration(float64(retryDelay) * 1.5)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS after %d attempts: %w", maxRetries, err)
	}

	if !nc.IsConnected() {
		nc.Close()
		return nil, fmt.Errorf("NATS connection not established")
	}

	log.Info("Successfully connected to NATS", zap.String("url", natsURL))
	return nc, nil
}

// EnsureStream creates the stream (or updates its subjects) and returns it.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: []string{SubjectJobs(name), SubjectProgress(name)},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("create or update stream %s: %w", name, err)
	}
	return stream, nil
}

// Open connects and prepares JetStream plus the stream in one go.
func Open(ctx context.Context, log *zap.Logger, natsURL, streamName string) (*nats.Conn, jetstream.JetStream, jetstream.Stream, error) {
	nc, err := Connect(ctx, log, natsURL)
	if err != nil {
		return nil, nil, nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := EnsureStream(ctx, js, streamName)
	if err != nil {
		nc.Close()
		return nil, nil, nil, err
	}

	return nc, js, stream, nil
}
