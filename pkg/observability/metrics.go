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

package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
)

const meterName = "github.com/prometheuslabstech/prometheus"

// Metrics records tool invocations.
type Metrics interface {
	RecordToolCall(ctx context.Context, tool string, duration time.Duration, err error)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordToolCall(context.Context, string, time.Duration, error) {}

// PrometheusMetrics records tool metrics through an OpenTelemetry meter
// backed by a Prometheus exporter on a private registry.
type PrometheusMetrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	toolDuration    metric.Float64Histogram
	toolCallsTotal  metric.Int64Counter
	toolErrorsTotal metric.Int64Counter
}

// InitMetrics creates tool metrics. When disabled the returned value records
// nothing and has no handler.
func InitMetrics(cfg MetricsConfig) (*PrometheusMetrics, error) {
	if !cfg.Enabled {
		return &PrometheusMetrics{}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	toolDuration, err := meter.Float64Histogram(
		"prometheus_tool_duration",
		metric.WithDescription("Tool call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool duration histogram: %w", err)
	}

	toolCalls, err := meter.Int64Counter(
		"prometheus_tool_calls",
		metric.WithDescription("Total tool calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool calls counter: %w", err)
	}

	toolErrors, err := meter.Int64Counter(
		"prometheus_tool_errors",
		metric.WithDescription("Total failed tool calls by error kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool errors counter: %w", err)
	}

	return &PrometheusMetrics{
		provider:        provider,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		toolDuration:    toolDuration,
		toolCallsTotal:  toolCalls,
		toolErrorsTotal: toolErrors,
	}, nil
}

// RecordToolCall records one tool invocation. Nil-safe.
func (m *PrometheusMetrics) RecordToolCall(ctx context.Context, tool string, duration time.Duration, err error) {
	if m == nil || m.toolCallsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("tool", tool))
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
	m.toolCallsTotal.Add(ctx, 1, attrs)

	if err != nil {
		m.toolErrorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("kind", string(errorsx.KindOf(err))),
		))
	}
}

// Handler serves the Prometheus exposition format, or nil when disabled.
func (m *PrometheusMetrics) Handler() http.Handler {
	if m == nil {
		return nil
	}
	return m.handler
}

// Shutdown flushes and stops the meter provider.
func (m *PrometheusMetrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
