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


package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/prometheuslabstech/prometheus"
	"github.com/prometheuslabstech/prometheus/pkg/analysis"
	"github.com/prometheuslabstech/prometheus/pkg/config"
	"github.com/prometheuslabstech/prometheus/pkg/logger"
	"github.com/prometheuslabstech/prometheus/pkg/observability"
	"github.com/prometheuslabstech/prometheus/pkg/research"
	"github.com/prometheuslabstech/prometheus/pkg/runtime"
	"github.com/prometheuslabstech/prometheus/pkg/server"
	"github.com/prometheuslabstech/prometheus/pkg/tool/functiontool"
)

const tracerName = "github.com/prometheuslabstech/prometheus"

// AnalysisCmd runs the analysis server.
type AnalysisCmd struct{}

func (c *AnalysisCmd) Run(a *app) error {
	return a.serve(func(ctx context.Context, cfg *config.Config, opts []functiontool.Option) (*toolset, error) {
		clients, err := runtime.NewAnalysisClients(ctx, cfg, runtime.Options{})
		if err != nil {
			return nil, err
		}
		tools, err := clients.AnalysisService(cfg).Tools(opts...)
		if err != nil {
			_ = clients.Close()
			return nil, err
		}
		return &toolset{
			info:    server.Info{Name: analysis.ServerName, Instructions: analysis.Instructions},
			tools:   tools,
			clients: clients,
		}, nil
	})
}

// ResearchCmd runs the research server.
type ResearchCmd struct{}

func (c *ResearchCmd) Run(a *app) error {
	return a.serve(func(_ context.Context, cfg *config.Config, opts []functiontool.Option) (*toolset, error) {
		clients, err := runtime.NewResearchClients(cfg, runtime.Options{})
		if err != nil {
			return nil, err
		}
		svc, err := clients.ResearchService(cfg)
		if err != nil {
			_ = clients.Close()
			return nil, err
		}
		tools, err := svc.Tools(opts...)
		if err != nil {
			_ = clients.Close()
			return nil, err
		}
		return &toolset{
			info:    server.Info{Name: research.ServerName, Instructions: research.Instructions},
			tools:   tools,
			clients: clients,
		}, nil
	})
}

type toolset struct {
	info    server.Info
	tools   []mcpserver.ServerTool
	clients *runtime.Clients
}

type toolsetBuilder func(ctx context.Context, cfg *config.Config, opts []functiontool.Option) (*toolset, error)

// serve runs one MCP server until SIGINT/SIGTERM or the client disconnects.
func (a *app) serve(build toolsetBuilder) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cleanup, err := a.loadConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	obs, err := observability.Init(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			logger.GetLogger().Warn("Observability shutdown failed", "error", err)
		}
	}()

	ts, err := build(ctx, cfg, []functiontool.Option{
		functiontool.WithTracer(obs.Tracer(tracerName)),
		functiontool.WithMetrics(obs.Metrics()),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := ts.clients.Close(); err != nil {
			logger.GetLogger().Warn("Client cleanup failed", "error", err)
		}
	}()

	ts.info.Version = prometheus.GetVersion().Version
	mcp := server.New(ts.info, ts.tools...)

	err = server.Serve(ctx, mcp, server.Options{
		Info:            ts.info,
		Transport:       cfg.Server.Transport,
		Address:         cfg.Server.Address,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Metrics:         obs.MetricsHandler(),
		MetricsPath:     cfg.Observability.Metrics.Endpoint,
		OpsAddress:      cfg.Observability.Metrics.Address,
	})
	logger.GetLogger().Info("Server stopped", "server", ts.info.Name)
	return err
}

// loadConfig loads .env files and the config file, applies CLI overrides and
// installs the logger.
func (a *app) loadConfig() (*config.Config, func(), error) {
	cli := a.cli

	// Logger from flags and env first, so config errors are logged.
	cleanup, err := initLogger(resolveLogSettings(cli, os.LookupEnv, nil))
	if err != nil {
		return nil, nil, err
	}

	dirs := []string{"."}
	if cli.Config != "" {
		if dir := filepath.Dir(cli.Config); dir != "." {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := config.LoadEnvFiles(dir); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if cli.Transport != "" {
		cfg.Server.Transport = cli.Transport
	}
	if cli.Address != "" {
		cfg.Server.Address = cli.Address
	}
	if err := cfg.Validate(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	cleanup()
	cleanup, err = initLogger(resolveLogSettings(cli, os.LookupEnv, &cfg.Logger))
	if err != nil {
		return nil, nil, err
	}

	if cli.Config != "" {
		logger.GetLogger().Info("Loaded configuration", "path", cli.Config)
	}
	return cfg, cleanup, nil
}
