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

// Package functiontool creates MCP tools from typed Go functions.
//
// The input schema is generated from the argument struct's tags, incoming
// arguments are bound onto the struct, and every call is traced, measured
// and logged under a fresh call ID.
//
// # Basic Usage
//
//	type WebSearchArgs struct {
//	    SearchTerm string  `json:"search_term" jsonschema:"required,description=What to search for"`
//	    Objective  *string `json:"objective,omitempty" jsonschema:"description=Why the search is run"`
//	}
//
//	searchTool, err := functiontool.New(
//	    functiontool.Config{
//	        Name:        "web_search",
//	        Description: "Search the web",
//	    },
//	    func(ctx context.Context, args WebSearchArgs) (string, error) {
//	        // Implementation
//	        return `{"results":[]}`, nil
//	    },
//	)
//
// Optional arguments are pointer fields: nil means the caller omitted the
// argument (or sent null), a non-nil empty string means it was sent empty.
//
// A returned error becomes an isError tool result carrying the error text;
// it is never turned into a protocol-level error.
package functiontool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/logger"
	"github.com/prometheuslabstech/prometheus/pkg/observability"
)

// Config defines the configuration for a function tool.
type Config struct {
	// Name is the unique identifier for this tool (required).
	Name string

	// Description explains what the tool does (required).
	// This is shown to the calling model to help it decide when to use the tool.
	Description string

	// ReadOnly marks the tool as free of side effects in its annotations.
	ReadOnly bool
}

type options struct {
	tracer  trace.Tracer
	metrics observability.Metrics
	logger  *slog.Logger
}

// Option configures instrumentation of a function tool.
type Option func(*options)

// WithTracer sets the tracer used for per-call spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMetrics sets the tool call recorder.
func WithMetrics(m observability.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLogger sets the logger. Defaults to logger.GetLogger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an MCP tool from a typed function.
//
// The function signature must be:
//
//	func(context.Context, Args) (string, error)
//
// Where Args is a struct with json and jsonschema tags defining the parameters.
// The returned string is sent to the caller as a single text content block.
func New[Args any](cfg Config, fn func(context.Context, Args) (string, error), opts ...Option) (server.ServerTool, error) {
	return NewWithValidation(cfg, fn, nil, opts...)
}

// NewWithValidation creates an MCP tool with custom argument validation.
// The validation function runs after binding and before the main function,
// for rules struct tags cannot express (such as non-empty strings).
// Validation errors are classified as errorsx.KindInvalidArgument unless
// they already carry a kind.
func NewWithValidation[Args any](
	cfg Config,
	fn func(context.Context, Args) (string, error),
	validate func(Args) error,
	opts ...Option,
) (server.ServerTool, error) {
	if err := validateConfig(cfg); err != nil {
		return server.ServerTool{}, err
	}
	if fn == nil {
		return server.ServerTool{}, fmt.Errorf("tool %s: function is required", cfg.Name)
	}

	schema, err := generateSchema[Args]()
	if err != nil {
		return server.ServerTool{}, fmt.Errorf("failed to generate schema for %s: %w", cfg.Name, err)
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return server.ServerTool{}, fmt.Errorf("failed to encode schema for %s: %w", cfg.Name, err)
	}

	o := options{
		tracer:  noop.NewTracerProvider().Tracer("functiontool"),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.GetLogger()
	}

	ft := &functionTool[Args]{
		config:   cfg,
		fn:       fn,
		validate: validate,
		options:  o,
	}

	t := mcp.NewToolWithRawSchema(cfg.Name, cfg.Description, raw)
	if cfg.ReadOnly {
		t.Annotations.ReadOnlyHint = mcp.ToBoolPtr(true)
		t.Annotations.DestructiveHint = mcp.ToBoolPtr(false)
	}

	return server.ServerTool{Tool: t, Handler: ft.handle}, nil
}

// functionTool binds MCP call requests to a typed function.
type functionTool[Args any] struct {
	config   Config
	fn       func(context.Context, Args) (string, error)
	validate func(Args) error
	options
}

// handle is the MCP tool handler.
func (t *functionTool[Args]) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	callID := uuid.NewString()
	log := t.logger.With("tool", t.config.Name, "call_id", callID)

	ctx, span := t.tracer.Start(ctx, "tool."+t.config.Name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("tool.name", t.config.Name),
			attribute.String("tool.call_id", callID),
		),
	)
	defer span.End()

	log.Debug("Tool call started")
	start := time.Now()
	result, err := t.call(ctx, req.GetArguments())
	elapsed := time.Since(start)

	t.metrics.RecordToolCall(ctx, t.config.Name, elapsed, err)

	if err != nil {
		kind := errorsx.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", string(kind)))
		log.Warn("Tool call failed", "kind", kind, "duration", elapsed, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int("tool.result_bytes", len(result)))
	log.Info("Tool call completed", "duration", elapsed, "bytes", len(result))
	return mcp.NewToolResultText(result), nil
}

// call binds, validates and invokes the function.
func (t *functionTool[Args]) call(ctx context.Context, args map[string]any) (string, error) {
	var typedArgs Args
	if err := mapToStruct(args, &typedArgs); err != nil {
		return "", errorsx.Wrap(fmt.Errorf("invalid arguments for %s: %w", t.config.Name, err), errorsx.KindInvalidArgument)
	}

	if t.validate != nil {
		if err := t.validate(typedArgs); err != nil {
			return "", errorsx.Wrap(fmt.Errorf("validation failed for %s: %w", t.config.Name, err), errorsx.KindInvalidArgument)
		}
	}

	return t.fn(ctx, typedArgs)
}

// validateConfig checks that the configuration is valid.
func validateConfig(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if cfg.Description == "" {
		return fmt.Errorf("tool description is required")
	}
	return nil
}
