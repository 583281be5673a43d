package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/pkg/lib/logger/zaplogger"
	"github.com/chaemni0706/PaddleOCR-Interface/worker/internal/app"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zaplogger.SetupLoggerWithLevel(zapcore.DebugLevel)
	log.Info("Worker service started")

	cfg, err := config.LoadServiceConfig(log, configPath(), "DB_PASSWORD")
	if err != nil {
		log.Error("Failed to load config from yaml", zaplogger.Err(err))
		os.Exit(1)
	}
	log = zaplogger.SetupLoggerWithLevel(zaplogger.ParseLevel(cfg.LogLevel))

	if err := app.Run(ctx, log, cfg); err != nil {
		log.Error("Failed to run worker service", zaplogger.Err(err))
		os.Exit(1)
	}
}

// configPath honours PDFOCR_CONFIG; an empty value runs on defaults and env.
func configPath() string {
	if p, ok := os.LookupEnv(config.EnvPrefix + "_CONFIG"); ok {
		return p
	}
	return "internal/config/config.yaml"
}
