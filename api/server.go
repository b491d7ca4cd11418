// Package api serves the bot's health, metrics and read-only state over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bombom/mc-status-bot/pkg/registry"
)

// StateProvider is implemented by the bot.
type StateProvider interface {
	ServerAddress() string
	LastState() (online, known bool)
	Channels() []registry.Entry
}

// Server runs alongside the Discord session; neither blocks the other.
type Server struct {
	state       StateProvider
	httpServer  *http.Server
	logger      zerolog.Logger
	bearerToken string

	// wg tracks the listener goroutine
	wg sync.WaitGroup

	cancel   context.CancelFunc
	cancelMu sync.Mutex
}

// NewServer creates a server listening on ":"+port.
func NewServer(state StateProvider, port string, bearerToken string, logger zerolog.Logger) *Server {
	return &Server{
		state:       state,
		bearerToken: bearerToken,
		logger:      logger,
		httpServer: &http.Server{
			Addr:         ":" + port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler builds the routed handler with the middleware chain.
// Order, outer to inner: SecurityHeaders → Logger → RateLimit → BearerAuth.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, s)

	var handler http.Handler = mux
	handler = BearerAuth(s.bearerToken)(handler)
	handler = RateLimit(ctx, 10, 20)(handler)
	handler = Logger(s.logger)(handler)
	handler = SecurityHeaders()(handler)
	return handler
}

// Start serves until ctx is cancelled or Stop is called, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	s.cancelMu.Lock()
	s.cancel = serverCancel
	s.cancelMu.Unlock()

	s.httpServer.Handler = s.Handler(serverCtx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("API server listening")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("API server error")
			serverCancel()
		}
	}()

	<-serverCtx.Done()
	s.logger.Info().Msg("shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown failed: %w", err)
	}

	s.wg.Wait()
	s.logger.Info().Msg("API server stopped")
	return nil
}

// Stop cancels Start and waits for the listener to exit.
func (s *Server) Stop() error {
	s.cancelMu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancelMu.Unlock()

	s.wg.Wait()
	return nil
}
