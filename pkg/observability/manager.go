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

// Package observability wires OpenTelemetry tracing and Prometheus metrics
// for tool calls. Disabled components degrade to no-ops, so callers never
// need to check whether observability is on.
package observability

import (
	"context"
	"errors"
	"net/http"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Manager owns the tracer provider and metrics for the process lifetime.
type Manager struct {
	tracerProvider trace.TracerProvider
	metrics        *PrometheusMetrics
}

// Init initializes tracing and metrics and installs the tracer provider
// globally.
func Init(ctx context.Context, cfg Config) (*Manager, error) {
	tp, err := InitTracer(ctx, cfg.Tracing, os.Stderr)
	if err != nil {
		return nil, err
	}

	metrics, err := InitMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	return &Manager{tracerProvider: tp, metrics: metrics}, nil
}

// Noop returns a manager that records nothing.
func Noop() *Manager {
	return &Manager{tracerProvider: noop.NewTracerProvider(), metrics: &PrometheusMetrics{}}
}

// Tracer returns a named tracer.
func (m *Manager) Tracer(name string) trace.Tracer {
	if m == nil || m.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Metrics returns the tool metrics recorder.
func (m *Manager) Metrics() Metrics {
	if m == nil || m.metrics == nil {
		return NoopMetrics{}
	}
	return m.metrics
}

// MetricsHandler returns the /metrics handler, or nil when metrics are off.
func (m *Manager) MetricsHandler() http.Handler {
	if m == nil {
		return nil
	}
	return m.metrics.Handler()
}

// Shutdown flushes pending spans and metrics.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	var errs []error
	if sp, ok := m.tracerProvider.(interface{ Shutdown(context.Context) error }); ok {
		errs = append(errs, sp.Shutdown(ctx))
	}
	errs = append(errs, m.metrics.Shutdown(ctx))
	return errors.Join(errs...)
}
