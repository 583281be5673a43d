package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/http-server/handlers"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/http-server/routes"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/http-server/templates"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Server struct {
	router   *gin.Engine
	handlers *handlers.Handlers
	logger   *zap.Logger
	config   config.ServiceConfig
	limiter  *rate.Limiter
}

func NewServer(logger *zap.Logger, handlers *handlers.Handlers, cfg config.ServiceConfig) (*Server, error) {
	router := gin.New()
	router.MaxMultipartMemory = config.MultipartMemory
	router.Use(gin.Recovery(), requestLogger(logger))

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	var limiter *rate.Limiter
	if cfg.UploadConfig.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.UploadConfig.Rate), max(cfg.UploadConfig.Burst, 1))
	}

	s := &Server{
		router:   router,
		handlers: handlers,
		logger:   logger,
		config:   cfg,
		limiter:  limiter,
	}
	s.setupRoutes()
	return s, nil
}

// Handler is the router wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition"},
	})
	return c.Handler(s.router)
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.Handler(),
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("address", s.config.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		s.logger.Info("Server gracefully shut down")
		return nil
	}
}

func (s *Server) setupRoutes() {
	uploadLimit := rateLimit(s.limiter)

	api := s.router.Group("/api")
	routes.SetupJobsRoutes(api, s.handlers.JobsHandler, uploadLimit)

	routes.SetupPagesRoutes(s.router, s.handlers.PagesHandler, uploadLimit)
}
