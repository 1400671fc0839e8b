// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	gsserrors "github.com/gssr-go/gssr/pkg/errors"
)

// Server is an HTTP server with health, readiness and metrics endpoints
// plus the configured API handlers.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	mu          sync.RWMutex
	ready       bool
}

// Option configures a Server.
type Option func(*Config)

// WithName sets the server name reported by the root route.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithVersion sets the version reported by the root route.
func WithVersion(version string) Option {
	return func(c *Config) { c.Version = version }
}

// WithHandler adds API routes keyed by ServeMux pattern.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(c *Config) {
		if c.Handlers == nil {
			c.Handlers = map[string]http.HandlerFunc{}
		}
		for pattern, h := range handlers {
			c.Handlers[pattern] = h
		}
	}
}

// WithAddress sets the listen address and port.
func WithAddress(address string, port int) Option {
	return func(c *Config) {
		c.Address = address
		c.Port = port
	}
}

// WithRateLimit sets the request rate and burst size.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Config) {
		c.RateLimit = limit
		c.RateLimitBurst = burst
	}
}

// WithReadyCheck sets the readiness probe.
func WithReadyCheck(check func() error) Option {
	return func(c *Config) { c.ReadyCheck = check }
}

// New creates a server from defaults and options.
func New(opts ...Option) *Server {
	cfg := NewConfig()
	for _, o := range opts {
		o(cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a server from an explicit configuration.
func NewWithConfig(cfg *Config) *Server {
	if cfg == nil {
		cfg = NewConfig()
	}
	s := &Server{
		config:      cfg,
		rateLimiter: rate.NewLimiter(cfg.RateLimit, cfg.RateLimitBurst),
	}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Address, fmt.Sprint(cfg.Port)),
		Handler:           s.setupRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// SetReady marks the server as ready to serve traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start listens and serves until ctx is done, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return gsserrors.WrapWithContext(gsserrors.ErrCodeUnavailable, "failed to listen", err,
			map[string]any{"address": s.httpServer.Addr})
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.SetReady(true)
	slog.Info("server listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.WithoutCancel(ctx))
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return gsserrors.Wrap(gsserrors.ErrCodeInternal, "server failed", err)
	}
}

// Shutdown stops accepting requests and waits for in-flight requests up
// to the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "timeout", s.config.ShutdownTimeout.String())
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run serves until SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		slog.String("name", s.config.Name),
		slog.String("version", s.config.Version),
		slog.String("address", s.httpServer.Addr),
		slog.Any("rateLimit", s.config.RateLimit),
		slog.Int("rateLimitBurst", s.config.RateLimitBurst),
		slog.Duration("readTimeout", s.config.ReadTimeout),
		slog.Duration("writeTimeout", s.config.WriteTimeout),
		slog.Duration("idleTimeout", s.config.IdleTimeout),
		slog.Duration("shutdownTimeout", s.config.ShutdownTimeout),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
