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

package functiontool_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/logger"
	"github.com/prometheuslabstech/prometheus/pkg/tool/functiontool"
)

type echoArgs struct {
	Text    string  `json:"text" jsonschema:"required,description=Text to echo"`
	Prefix  *string `json:"prefix,omitempty" jsonschema:"description=Optional prefix"`
	Repeats int     `json:"repeats,omitempty" jsonschema:"description=How many times,minimum=1"`
}

func echo(_ context.Context, args echoArgs) (string, error) {
	out := args.Text
	if args.Prefix != nil {
		out = *args.Prefix + ":" + out
	}
	return out, nil
}

type recordedCall struct {
	tool string
	err  error
}

type fakeMetrics struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *fakeMetrics) RecordToolCall(_ context.Context, tool string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{tool: tool, err: err})
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func newEcho(t *testing.T, opts ...functiontool.Option) server.ServerTool {
	t.Helper()
	st, err := functiontool.New(functiontool.Config{Name: "echo", Description: "Echo text", ReadOnly: true}, echo, opts...)
	require.NoError(t, err)
	return st
}

func TestNew_Schema(t *testing.T) {
	st := newEcho(t)

	assert.Equal(t, "echo", st.Tool.Name)
	assert.Equal(t, "Echo text", st.Tool.Description)
	require.NotNil(t, st.Tool.Annotations.ReadOnlyHint)
	assert.True(t, *st.Tool.Annotations.ReadOnlyHint)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(st.Tool.RawInputSchema, &schema))
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "text")
	assert.Contains(t, props, "prefix")
	assert.Contains(t, props, "repeats")

	prefix := props["prefix"].(map[string]any)
	assert.Equal(t, "string", prefix["type"])
	assert.Equal(t, "Optional prefix", prefix["description"])

	assert.Equal(t, []any{"text"}, schema["required"])
}

func TestNew_EmptyArgsHasProperties(t *testing.T) {
	st, err := functiontool.New(functiontool.Config{Name: "ping", Description: "Ping"},
		func(context.Context, struct{}) (string, error) { return "pong", nil })
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(st.Tool.RawInputSchema, &schema))
	assert.Equal(t, map[string]any{}, schema["properties"])
	assert.NotContains(t, schema, "required")

	req := mcp.CallToolRequest{}
	req.Params.Name = "ping"
	res, err := st.Handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "pong", res.Content[0].(mcp.TextContent).Text)
}

func TestNew_UnnamedArgsRejected(t *testing.T) {
	_, err := functiontool.New(functiontool.Config{Name: "anon", Description: "Anonymous args"},
		func(context.Context, struct {
			Text string `json:"text"`
		}) (string, error) {
			return "", nil
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "named struct type")
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  functiontool.Config
	}{
		{name: "missing_name", cfg: functiontool.Config{Description: "d"}},
		{name: "missing_description", cfg: functiontool.Config{Name: "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := functiontool.New(tt.cfg, echo)
			assert.Error(t, err)
		})
	}
}

func TestCall(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		want     string
		wantKind errorsx.Kind
	}{
		{
			name: "required_only",
			args: map[string]any{"text": "hi"},
			want: "hi",
		},
		{
			name: "optional_present",
			args: map[string]any{"text": "hi", "prefix": "p"},
			want: "p:hi",
		},
		{
			name: "optional_empty_string_is_present",
			args: map[string]any{"text": "hi", "prefix": ""},
			want: ":hi",
		},
		{
			name: "optional_null_is_absent",
			args: map[string]any{"text": "hi", "prefix": nil},
			want: "hi",
		},
		{
			name:     "wrong_type",
			args:     map[string]any{"text": 42},
			wantKind: errorsx.KindInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newEcho(t)
			res, err := st.Handler(context.Background(), callRequest("echo", tt.args))
			require.NoError(t, err)

			text := resultText(t, res)
			if tt.wantKind != "" {
				assert.True(t, res.IsError)
				assert.Contains(t, text, "invalid arguments for echo")
				return
			}
			assert.False(t, res.IsError)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestCall_FunctionErrorBecomesToolError(t *testing.T) {
	metrics := &fakeMetrics{}
	var logBuf bytes.Buffer
	log := logger.New(slog.LevelInfo, &logBuf, logger.FormatSimple, false)

	cause := errorsx.New(errorsx.KindSchemaValidation, "keywords[0].theme: required")
	st, err := functiontool.New(functiontool.Config{Name: "extract", Description: "Extract"},
		func(context.Context, echoArgs) (string, error) { return "", cause },
		functiontool.WithMetrics(metrics), functiontool.WithLogger(log))
	require.NoError(t, err)

	res, err := st.Handler(context.Background(), callRequest("extract", map[string]any{"text": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, cause.Error(), resultText(t, res))

	require.Len(t, metrics.calls, 1)
	assert.Equal(t, "extract", metrics.calls[0].tool)
	assert.ErrorIs(t, metrics.calls[0].err, cause)

	out := logBuf.String()
	assert.Contains(t, out, "Tool call failed")
	assert.Contains(t, out, "tool=extract")
	assert.Contains(t, out, "kind=schema_validation")
	assert.Contains(t, out, "call_id=")
}

func TestNewWithValidation(t *testing.T) {
	called := false
	st, err := functiontool.NewWithValidation(
		functiontool.Config{Name: "echo", Description: "Echo"},
		func(ctx context.Context, args echoArgs) (string, error) {
			called = true
			return echo(ctx, args)
		},
		func(args echoArgs) error {
			if args.Text == "" {
				return fmt.Errorf("text must not be empty")
			}
			return nil
		},
	)
	require.NoError(t, err)

	res, err := st.Handler(context.Background(), callRequest("echo", map[string]any{"text": ""}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "validation failed for echo: text must not be empty")
	assert.False(t, called)

	res, err = st.Handler(context.Background(), callRequest("echo", map[string]any{"text": "ok"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.True(t, called)
}

func TestCall_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	failing, err := functiontool.New(functiontool.Config{Name: "fail", Description: "Fail"},
		func(context.Context, echoArgs) (string, error) { return "", errors.New("boom") },
		functiontool.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)
	ok := newEcho(t, functiontool.WithTracer(tp.Tracer("test")))

	_, err = ok.Handler(context.Background(), callRequest("echo", map[string]any{"text": "x"}))
	require.NoError(t, err)
	_, err = failing.Handler(context.Background(), callRequest("fail", map[string]any{"text": "x"}))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "tool.echo", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, "tool.fail", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}
