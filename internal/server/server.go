// Package server defines the Server container that composes the app's shared
// dependencies and owns the HTTP server lifecycle.
//
// It owns:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the RPC client used to persist leads
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/lead-intake/internal/config"
	"github.com/deppfellow/lead-intake/internal/lib/rpc"
	loggerPkg "github.com/deppfellow/lead-intake/internal/logger"
	"github.com/deppfellow/lead-intake/internal/model"
)

// Server is the application container that holds shared resources.
//
// Everything here is read-only after New returns; handlers may use it from
// any number of goroutines.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application, nil inside when disabled.
	LoggerService *loggerPkg.LoggerService

	// RPC calls the remote procedure-call endpoint.
	RPC *rpc.Client

	httpServer *http.Server
}

// New constructs a Server. It performs no network I/O.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	rpcClient := rpc.NewClient(rpc.Options{
		BaseURL:          cfg.Supabase.URL,
		ServiceKey:       cfg.Supabase.ServiceKey,
		Timeout:          cfg.Supabase.Timeout,
		MaxResponseBytes: cfg.Supabase.MaxResponseBytes,
	})

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		RPC:           rpcClient,
	}, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("rpc_url", s.RPC.FunctionURL(model.LogLeadFunction)).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, then flushes APM data.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.LoggerService.Shutdown()

	return nil
}
