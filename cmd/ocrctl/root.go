package main

import (
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/client"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/pkg/lib/logger/zaplogger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	configPath string
	apiURL     string
	timeout    time.Duration
	verbose    bool

	cfg config.ServiceConfig
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ocrctl",
		Short:         "Upload PDFs to the OCR service and inspect jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zapcore.WarnLevel
			if opts.verbose {
				level = zapcore.DebugLevel
			}
			opts.log = zaplogger.SetupLoggerWithLevel(level)

			cfg, err := config.LoadServiceConfig(zap.NewNop(), opts.configPath, "DB_PASSWORD")
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				cfg.ClientConfig.BaseURL = opts.apiURL
			}
			if opts.timeout > 0 {
				cfg.ClientConfig.Timeout = opts.timeout
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (defaults and PDFOCR_* env when empty)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides config and PDFOCR_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "per request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		processCmd(opts),
		statusCmd(opts),
		resultCmd(opts),
		cancelCmd(opts),
		deleteCmd(opts),
		jobsCmd(opts),
		healthCmd(opts),
	)
	return root
}

func (o *rootOptions) client() (*client.Client, error) {
	return client.New(o.cfg.ClientConfig.BaseURL, client.WithTimeout(o.cfg.ClientConfig.Timeout))
}
