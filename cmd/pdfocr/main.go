package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/app"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/pkg/lib/logger/zaplogger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zaplogger.SetupLogger()
	log.Info("PDF OCR service started")

	cfg, err := config.LoadServiceConfig(log, configPath(), "DB_PASSWORD")
	if err != nil {
		log.Error("Failed to load service config", zaplogger.Err(err))
		os.Exit(1)
	}
	log = zaplogger.SetupLoggerWithLevel(zaplogger.ParseLevel(cfg.LogLevel))

	if err := app.Run(ctx, log, cfg); err != nil {
		log.Error("Service encountered an error", zaplogger.Err(err))
		os.Exit(1)
	}
	log.Info("PDF OCR service stopped")
}

// configPath honours PDFOCR_CONFIG; an empty value runs on defaults and env.
func configPath() string {
	if p, ok := os.LookupEnv(config.EnvPrefix + "_CONFIG"); ok {
		return p
	}
	return "internal/config/config.yaml"
}
