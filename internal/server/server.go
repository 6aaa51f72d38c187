// Package server exposes the observability endpoints of a running batch:
// the Prometheus metrics recorded by the extractors, a health probe and the
// registered extraction routes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/logging"
)

// Server serves the observability endpoints over HTTP.
type Server struct {
	factory    constants.ExtractorFactory
	httpServer *http.Server
	logger     logging.Logger
	timeouts   Timeouts
	started    time.Time
}

// Option defines a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
//
// Parameters:
//   - logger: The logger to use. If nil, the default logger is kept.
//
// Returns:
//   - Option: A functional option that configures the server's logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeouts sets custom timeout configuration for the server.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// Timeouts holds the timeout configuration of the HTTP server.
type Timeouts struct {
	// ShutdownTimeout is the maximum duration allowed for graceful shutdown.
	ShutdownTimeout time.Duration
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
}

// DefaultServerTimeouts returns the timeouts used when none is configured.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		ShutdownTimeout: 5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     time.Minute,
	}
}

// NewServer creates a Server listening on addr.
//
// Parameters:
//   - factory: The registry listed by /extractors.
//   - addr: The listen address, e.g. ":9090".
//   - opts: Optional functional options (e.g., WithLogger).
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(factory constants.ExtractorFactory, addr string, opts ...Option) *Server {
	s := &Server{
		factory:  factory,
		logger:   logging.NewNopLogger(),
		timeouts: DefaultServerTimeouts(),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the request multiplexer of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", getOnly(promhttp.Handler()))
	mux.Handle("/health", getOnly(http.HandlerFunc(s.handleHealth)))
	mux.Handle("/extractors", getOnly(http.HandlerFunc(s.handleExtractors)))
	return mux
}

// Start serves until ctx is cancelled, then shuts the server down gracefully.
//
// Returns:
//   - error: Nil after a clean shutdown, otherwise the listen or shutdown error.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.WrapError(err, "metrics server failed to listen on %s", s.httpServer.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return apperrors.WrapError(err, "metrics server failed")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "failed to gracefully shutdown metrics server")
	}
	s.logger.Info("metrics server stopped")
	return nil
}
