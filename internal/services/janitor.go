package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Janitor periodically purges finished jobs past their retention age.
type Janitor struct {
	purger   Purger
	schedule string
	logger   *zap.Logger
}

func NewJanitor(purger Purger, schedule string, logger *zap.Logger) *Janitor {
	return &Janitor{
		purger:   purger,
		schedule: schedule,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Runs in progress finish before it returns.
func (j *Janitor) Run(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(j.schedule, func() {
		if _, err := j.purger.PurgeExpired(ctx); err != nil {
			j.logger.Error("retention purge failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule retention %q: %w", j.schedule, err)
	}

	c.Start()
	j.logger.Info("retention janitor started", zap.String("schedule", j.schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	j.logger.Info("retention janitor stopped")
	return nil
}
