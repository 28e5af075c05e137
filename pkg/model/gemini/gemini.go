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

// Package gemini implements the model.LLM interface for Google Gemini models
// using the official google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/model"
)

// DefaultModelID is used when a request names no model.
const DefaultModelID = "gemini-2.5-flash-lite"

// API key environment variables, checked in order when Config.APIKey is empty.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
)

// ContentGenerator is the subset of *genai.Models used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config contains configuration for the Gemini model.
type Config struct {
	// APIKey is the Google AI API key. Falls back to GEMINI_API_KEY, then
	// GOOGLE_API_KEY.
	APIKey string

	// Model is the default model for requests without one.
	Model string
}

// Client implements model.LLM for Gemini.
type Client struct {
	models       ContentGenerator
	defaultModel string
}

// New creates a Gemini client. A missing API key is a configuration error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	apiKey := resolveAPIKey(cfg.APIKey, os.LookupEnv)
	if apiKey == "" {
		return nil, errorsx.New(errorsx.KindConfiguration,
			"gemini API key is required (set llm.api_key, %s or %s)", EnvAPIKey, EnvGoogleAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("failed to create Gemini client: %w", err), errorsx.KindConfiguration)
	}

	return NewWithGenerator(client.Models, cfg.Model), nil
}

// NewWithGenerator creates a Client over an existing generator.
func NewWithGenerator(models ContentGenerator, defaultModel string) *Client {
	if defaultModel == "" {
		defaultModel = DefaultModelID
	}
	return &Client{models: models, defaultModel: defaultModel}
}

func resolveAPIKey(explicit string, lookup func(string) (string, bool)) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{EnvAPIKey, EnvGoogleAPIKey} {
		if v, ok := lookup(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// Provider returns the provider type.
func (c *Client) Provider() model.Provider {
	return model.ProviderGemini
}

// Converse performs one non-streaming generation and returns the response
// text. Thought parts are skipped.
func (c *Client) Converse(ctx context.Context, req *model.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
			Role:  genai.RoleUser,
		},
		MaxOutputTokens: int32(req.MaxTokensOrDefault()),
	}

	resp, err := c.models.GenerateContent(ctx, req.ModelOr(c.defaultModel), genai.Text(req.UserMessage), config)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.KindProviderTransport)
	}

	return parseResponse(resp)
}

func parseResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errorsx.New(errorsx.KindMalformedResponse, "empty response from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", errorsx.New(errorsx.KindMalformedResponse,
			"gemini candidate has no content (finish reason %q)", candidate.FinishReason)
	}

	var sb strings.Builder
	found := false
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.Text != "" {
			sb.WriteString(part.Text)
			found = true
		}
	}
	if !found {
		return "", errorsx.New(errorsx.KindMalformedResponse, "gemini candidate has no text parts")
	}
	return sb.String(), nil
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}

var _ model.LLM = (*Client)(nil)
