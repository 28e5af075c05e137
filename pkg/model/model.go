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

// Package model defines the LLM capability the tools depend on.
//
// Every provider adapter reduces its vendor's chat API to one single-turn
// call: a system instruction plus one user message in, decoded text out.
// There is no conversation history, no streaming and no retry at this layer;
// provider failures surface to the caller unmodified.
package model

import (
	"context"
	"math"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
)

// DefaultMaxTokens bounds generated length when a request does not.
const DefaultMaxTokens = 1024

// Provider identifies the LLM provider.
type Provider string

const (
	// ProviderBedrock is AWS Bedrock's Converse API. Its raw payload is a
	// nested content-block document.
	ProviderBedrock Provider = "bedrock"

	// ProviderGemini is Google Gemini. Its SDK response exposes text directly.
	ProviderGemini Provider = "gemini"
)

// LLM is the interface for language models.
type LLM interface {
	// Provider returns the provider type.
	Provider() Provider

	// Converse sends one system instruction and one user message and returns
	// the text of the first response choice.
	Converse(ctx context.Context, req *Request) (string, error)

	// Close releases any resources held by the LLM.
	Close() error
}

// Request is a single-turn generation request.
type Request struct {
	// UserMessage is the only message in the conversation.
	UserMessage string

	// SystemPrompt is the system instruction.
	SystemPrompt string

	// ModelID selects the model. Empty means the adapter's default.
	ModelID string

	// MaxTokens limits the response length. Zero or negative means
	// DefaultMaxTokens.
	MaxTokens int
}

// Validate checks that both messages are present and MaxTokens fits the
// providers' int32 limit.
func (r *Request) Validate() error {
	if r == nil {
		return errorsx.New(errorsx.KindInvalidArgument, "request is required")
	}
	if r.UserMessage == "" {
		return errorsx.New(errorsx.KindInvalidArgument, "user message is required")
	}
	if r.SystemPrompt == "" {
		return errorsx.New(errorsx.KindInvalidArgument, "system prompt is required")
	}
	if r.MaxTokens > math.MaxInt32 {
		return errorsx.New(errorsx.KindInvalidArgument, "max tokens must be at most %d, got %d", math.MaxInt32, r.MaxTokens)
	}
	return nil
}

// MaxTokensOrDefault returns MaxTokens, or DefaultMaxTokens when unset.
func (r *Request) MaxTokensOrDefault() int {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

// ModelOr returns ModelID, or fallback when unset.
func (r *Request) ModelOr(fallback string) string {
	if r.ModelID == "" {
		return fallback
	}
	return r.ModelID
}
