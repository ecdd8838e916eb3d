package server

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"users-ui/internal/config"
)

// Server owns the UI HTTP listener.
type Server struct {
	HTTP   *http.Server
	Logger *zap.Logger
}

// New wraps the router in an http.Server with read and write deadlines.
func New(cfg *config.Config, handler http.Handler, l *zap.Logger) *Server {
	return &Server{
		HTTP: &http.Server{
			Addr:              cfg.App.Address(),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      backendWriteTimeout(cfg),
			IdleTimeout:       120 * time.Second,
		},
		Logger: l,
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("UI server running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// backendWriteTimeout leaves room for a full backend round trip inside a
// single page render. Without a backend timeout the write deadline is off.
func backendWriteTimeout(cfg *config.Config) time.Duration {
	if cfg.Backend.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(cfg.Backend.TimeoutSeconds)*time.Second + 10*time.Second
}
