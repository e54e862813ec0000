package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/logger"
)

// Server timeouts.
const (
	readTimeout  = 30 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server is the HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server
	cfg    *config.Config
	logger logger.Logger
}

// NewServer builds the router with the standard middleware chain and the
// full route table, and wraps it in an http.Server.
func NewServer(handler *Handler, cfg *config.Config, log logger.Logger) *Server {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.CORS))
	router.Use(MetricsMiddleware())

	SetupRoutes(router, handler)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		cfg:    cfg,
		logger: log,
	}
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until shutdown or failure.
func (s *Server) Start() error {
	s.logger.Info("starting http server",
		logger.String("address", s.server.Addr),
		logger.String("service", s.cfg.Service.Name),
		logger.String("version", s.cfg.Service.Version),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Service.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// RunWithGracefulShutdown serves until SIGINT, SIGTERM or context
// cancellation, then shuts down gracefully.
func (s *Server) RunWithGracefulShutdown(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down")
	}

	// The original context may already be cancelled; shutdown needs its own.
	return s.Shutdown(context.Background())
}
