// Package server owns the HTTP transport lifecycle: it starts the listener
// and the background workers, and stops both gracefully on SIGINT, SIGTERM
// or SIGQUIT.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/workers"
)

// Server runs the HTTP listener and the background workers as one unit.
type Server struct {
	httpServer *http.Server
	workers    *workers.Workers
	logger     *logger.Logger
}

func NewServer(handler http.Handler, background *workers.Workers, cfg config.Server, logger *logger.Logger) (*Server, error) {
	logger.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" {
		return nil, errNoListenAddress
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddress,
			Handler:      handler,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		workers: background,
		logger:  logger,
	}, nil
}

// RunServer blocks until a stop signal arrives, then shuts down the listener
// and waits for the workers to drain.
func (s *Server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		if s.workers != nil {
			s.workers.Run(ctx)
		}
	}()

	go func() {
		s.logger.Info().Str("address", s.httpServer.Addr).Msg("Launching HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Err(err).Str("func", "Server.RunServer").Msg("HTTP server ListenAndServe failed")
			stop()
		}
	}()

	<-ctx.Done()

	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		s.logger.Err(err).Str("func", "Server.RunServer").Msg("HTTP server Shutdown failed")
	}

	<-workersDone
	s.logger.Info().Msg("server Shutdown gracefully")
}
