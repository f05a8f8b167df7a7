package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/wgps/internal/logger"
	"github.com/marmos91/wgps/pkg/controlplane/api/auth"
	"github.com/marmos91/wgps/pkg/controlplane/store"
)

// Server provides an HTTP server for the control-plane REST API.
//
// Endpoints:
//   - GET  /health: liveness probe
//   - POST /api/v1/auth/login: operator authentication
//   - /api/v1/peers/*: peer registry management
//   - /api/v1/peers/{id}/areas/*: authorised-area management
//
// When Start's context is cancelled, the server shuts down gracefully with a
// fixed 5-second timeout; Stop takes the caller's context instead.
type Server struct {
	server       *http.Server
	jwtService   *auth.JWTService
	cpStore      *store.GORMStore
	config       APIConfig
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server, stopped. Call Start to serve.
func NewServer(config APIConfig, cpStore *store.GORMStore) (*Server, error) {
	config.applyDefaults()

	jwtSecret := config.GetJWTSecret()
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters; set via %s env var or config", EnvControlPlaneSecret)
	}

	jwtConfig := auth.JWTConfig{
		Secret:               jwtSecret,
		Issuer:               "wgps-controlplane",
		AccessTokenDuration:  config.JWT.AccessTokenDuration,
		RefreshTokenDuration: config.JWT.RefreshTokenDuration,
	}
	jwtService, err := auth.NewJWTService(jwtConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	resolvedOperator := config.Operator
	resolvedOperator.PasswordHash = config.GetOperatorPasswordHash()

	router := NewRouter(jwtService, cpStore, resolvedOperator)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server:     httpServer,
		jwtService: jwtService,
		cpStore:    cpStore,
		config:     config,
	}, nil
}

// Start starts the API HTTP server and blocks until ctx is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("control plane API listening", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("control plane API shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("control plane API failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("control plane API shutdown error: %w", err)
			logger.Error("control plane API shutdown error", "error", err)
		} else {
			logger.Info("control plane API stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	return s.config.Port
}
