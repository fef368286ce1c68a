// Package server runs the HTTP server with graceful shutdown
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// Server wraps the HTTP server
type Server struct {
	httpServer *http.Server
}

// New creates a server for the given router
func New(router *gin.Engine, port string) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Run starts the server and blocks until a shutdown signal arrives. In-flight
// requests get up to 10 seconds to finish.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("Server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info().Msg("Server stopped")
	return nil
}
