package handlers

import (
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/handler"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services"
	"go.uber.org/zap"
)

type Options struct {
	Version       string
	PollInterval  time.Duration
	RedirectDelay time.Duration
}

type Handlers struct {
	log          *zap.Logger
	JobsHandler  handler.JobsHandlerInterface
	PagesHandler handler.PagesHandlerInterface
}

func NewHandlers(logger *zap.Logger, service *services.Services, opts Options) *Handlers {
	validator := service.JobsService.Validator()
	return &Handlers{
		log:          logger,
		JobsHandler:  NewJobsHandler(logger, service.JobsService, validator.MaxSize(), opts.Version),
		PagesHandler: NewPagesHandler(logger, service.JobsService, validator, opts),
	}
}
