package config

import "time"

const (
	// HTTP Server timeouts
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// Uploads
	DefaultMaxUploadSize = 50 * 1024 * 1024
	MultipartMemory      = 8 << 20

	// Job status polling
	DefaultPollInterval = 2 * time.Second

	// Simulated processing
	DefaultProcessingTick  = 50 * time.Millisecond
	DefaultStepPause       = 1500 * time.Millisecond
	DefaultWorkers         = 4
	DefaultRedirectDelayMs = 2000

	DefaultAPIURL = "http://localhost:8000"
	EnvPrefix     = "PDFOCR"
)
