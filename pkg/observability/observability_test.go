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
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()

	assert.Equal(t, DefaultServiceName, cfg.Tracing.ServiceName)
	assert.Equal(t, ExporterStdout, cfg.Tracing.Exporter)
	assert.Equal(t, DefaultSamplingRate, cfg.Tracing.SamplingRate)
	assert.True(t, cfg.Tracing.IsInsecure())
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Endpoint)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "disabled tracing ignores bad exporter",
			cfg:  Config{Tracing: TracingConfig{Exporter: "zipkin"}},
		},
		{
			name:    "bad exporter",
			cfg:     Config{Tracing: TracingConfig{Enabled: true, Exporter: "zipkin", SamplingRate: 1}},
			wantErr: true,
		},
		{
			name:    "sampling rate out of range",
			cfg:     Config{Tracing: TracingConfig{Enabled: true, Exporter: ExporterStdout, SamplingRate: 2}},
			wantErr: true,
		},
		{
			name:    "otlp without endpoint",
			cfg:     Config{Tracing: TracingConfig{Enabled: true, Exporter: ExporterOTLP, SamplingRate: 1}},
			wantErr: true,
		},
		{
			name:    "relative metrics path",
			cfg:     Config{Metrics: MetricsConfig{Enabled: true, Endpoint: "metrics"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDisabledMetricsAreNilSafe(t *testing.T) {
	m, err := InitMetrics(MetricsConfig{})
	require.NoError(t, err)

	m.RecordToolCall(context.Background(), "web_search", time.Millisecond, nil)
	assert.Nil(t, m.Handler())
	assert.NoError(t, m.Shutdown(context.Background()))

	var nilMetrics *PrometheusMetrics
	nilMetrics.RecordToolCall(context.Background(), "web_search", time.Millisecond, nil)
}

func TestPrometheusMetricsExposition(t *testing.T) {
	m, err := InitMetrics(MetricsConfig{Enabled: true, Endpoint: DefaultMetricsPath})
	require.NoError(t, err)
	defer func() { _ = m.Shutdown(context.Background()) }()

	ctx := context.Background()
	m.RecordToolCall(ctx, "extract_research_keywords", 120*time.Millisecond, nil)
	m.RecordToolCall(ctx, "extract_research_keywords", 80*time.Millisecond,
		errorsx.New(errorsx.KindSchemaValidation, "missing theme"))

	require.NotNil(t, m.Handler())
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "prometheus_tool_calls")
	assert.Contains(t, text, "prometheus_tool_errors")
	assert.Contains(t, text, `kind="schema_validation"`)
	assert.Contains(t, text, `tool="extract_research_keywords"`)
}

func TestInitTracerDisabledIsNoop(t *testing.T) {
	tp, err := InitTracer(context.Background(), TracingConfig{}, io.Discard)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "span")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestInitTracerStdout(t *testing.T) {
	var buf bytes.Buffer
	cfg := TracingConfig{Enabled: true}
	cfg.SetDefaults()

	tp, err := InitTracer(context.Background(), cfg, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "tool.web_search")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	shutdowner, ok := tp.(interface{ Shutdown(context.Context) error })
	require.True(t, ok)
	require.NoError(t, shutdowner.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tool.web_search")
}

func TestNoopManager(t *testing.T) {
	m := Noop()

	m.Metrics().RecordToolCall(context.Background(), "web_search", time.Second, errors.New("boom"))
	assert.Nil(t, m.MetricsHandler())
	assert.NoError(t, m.Shutdown(context.Background()))

	var nilManager *Manager
	assert.NotNil(t, nilManager.Tracer("x"))
	assert.IsType(t, NoopMetrics{}, nilManager.Metrics())
}
