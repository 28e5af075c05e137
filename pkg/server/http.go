// Copyright 2025 Prometheus Labs
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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/prometheuslabstech/prometheus/pkg/logger"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	// MCPPath is where the streamable HTTP endpoint is mounted.
	MCPPath = "/mcp"

	// HealthPath answers liveness probes.
	HealthPath = "/health"

	defaultMetricsPath     = "/metrics"
	defaultShutdownTimeout = 5 * time.Second
)

// Options configures Serve.
type Options struct {
	Info Info

	// Transport is TransportStdio or TransportHTTP.
	Transport string

	// Address is the listen address of the http transport.
	Address string

	ShutdownTimeout time.Duration

	// Metrics is mounted at MetricsPath when non-nil.
	Metrics     http.Handler
	MetricsPath string

	// OpsAddress starts a side listener for health and metrics with the
	// stdio transport. Ignored for http, which serves them itself.
	OpsAddress string

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Serve runs s on the configured transport until ctx is done or the client
// closes stdin.
func Serve(ctx context.Context, s *mcpserver.MCPServer, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	switch opts.Transport {
	case "", TransportStdio:
		return serveStdio(ctx, s, opts)
	case TransportHTTP:
		if opts.Address == "" {
			return fmt.Errorf("address is required for the http transport")
		}
		router := NewRouter(RouterOptions{
			Info:        opts.Info,
			MCP:         mcpserver.NewStreamableHTTPServer(s),
			Metrics:     opts.Metrics,
			MetricsPath: opts.MetricsPath,
		})
		logger.GetLogger().Info("MCP server listening",
			"server", opts.Info.Name,
			"transport", TransportHTTP,
			"address", opts.Address,
			"endpoint", MCPPath)
		return listenAndServe(ctx, opts.Address, router, opts.ShutdownTimeout)
	default:
		return fmt.Errorf("unsupported transport %q (valid: stdio, http)", opts.Transport)
	}
}

func serveStdio(ctx context.Context, s *mcpserver.MCPServer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdin, stdout := opts.Stdin, opts.Stdout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	g, gctx := errgroup.WithContext(ctx)

	if opts.OpsAddress != "" {
		router := NewRouter(RouterOptions{
			Info:        opts.Info,
			Metrics:     opts.Metrics,
			MetricsPath: opts.MetricsPath,
		})
		logger.GetLogger().Info("Ops listener started", "address", opts.OpsAddress)
		g.Go(func() error {
			return listenAndServe(gctx, opts.OpsAddress, router, opts.ShutdownTimeout)
		})
	}

	g.Go(func() error {
		// Stdin closing ends the session and stops the ops listener.
		defer cancel()

		stdio := mcpserver.NewStdioServer(s)
		stdio.SetErrorLogger(slog.NewLogLogger(logger.GetLogger().Handler(), slog.LevelError))

		logger.GetLogger().Info("MCP server listening", "server", opts.Info.Name, "transport", TransportStdio)
		err := stdio.Listen(gctx, stdin, stdout)
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("stdio transport: %w", err)
	})

	return g.Wait()
}

// listenAndServe serves handler on addr until ctx is done, then shuts down
// gracefully within timeout.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, timeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.GetLogger().Info("Shutting down HTTP server", "address", addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Info Info

	// MCP is mounted at MCPPath when non-nil.
	MCP http.Handler

	Metrics     http.Handler
	MetricsPath string
}

// NewRouter builds the HTTP routes: the MCP endpoint, health and metrics.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)

	if opts.MCP != nil {
		r.Handle(MCPPath, opts.MCP)
	}

	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"server":  opts.Info.Name,
			"version": opts.Info.Version,
		})
	})

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = defaultMetricsPath
		}
		r.Handle(path, opts.Metrics)
	}

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		// Don't wrap ResponseWriter - it breaks http.Flusher for SSE
		next.ServeHTTP(w, r)
		logger.GetLogger().Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}
