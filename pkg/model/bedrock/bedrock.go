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

// Package bedrock implements the model.LLM interface over the AWS Bedrock
// Converse API.
//
// The adapter is split in two steps: Converse returns the provider's raw
// response as a generic document, and ExtractText pulls the first text block
// out of it. Keeping the brittle response path in one place lets the tools
// work against a plain string contract.
//
// Credentials come from the ambient AWS configuration chain (environment,
// shared config, instance role); this package never reads them directly.
package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/model"
)

// DefaultModelID is used when a request names no model.
const DefaultModelID = "anthropic.claude-3-haiku-20240307-v1:0"

// ConverseAPI is the subset of *bedrockruntime.Client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Converse sends a single-turn request and returns the raw response document:
//
//	{"output": {"message": {"role": "...", "content": [{"text": "..."}]}},
//	 "stopReason": "...", "usage": {...}}
//
// Errors from the API are returned with their original message, classified
// as errorsx.KindProviderTransport.
func Converse(ctx context.Context, api ConverseAPI, req *model.Request) (map[string]any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out, err := api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(req.ModelOr(DefaultModelID)),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: req.SystemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: req.UserMessage},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens: aws.Int32(int32(req.MaxTokensOrDefault())),
		},
	})
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.KindProviderTransport)
	}
	if out == nil {
		return nil, errorsx.New(errorsx.KindMalformedResponse, "bedrock returned an empty converse response")
	}

	return toDocument(out), nil
}

// toDocument flattens the SDK's typed unions into the wire-shaped document
// ExtractText navigates. Non-text content blocks become empty objects.
func toDocument(out *bedrockruntime.ConverseOutput) map[string]any {
	doc := map[string]any{
		"stopReason": string(out.StopReason),
	}

	if msg, ok := out.Output.(*types.ConverseOutputMemberMessage); ok {
		content := make([]any, 0, len(msg.Value.Content))
		for _, block := range msg.Value.Content {
			switch b := block.(type) {
			case *types.ContentBlockMemberText:
				content = append(content, map[string]any{"text": b.Value})
			default:
				content = append(content, map[string]any{})
			}
		}
		doc["output"] = map[string]any{
			"message": map[string]any{
				"role":    string(msg.Value.Role),
				"content": content,
			},
		}
	}

	if out.Usage != nil {
		doc["usage"] = map[string]any{
			"inputTokens":  int(aws.ToInt32(out.Usage.InputTokens)),
			"outputTokens": int(aws.ToInt32(out.Usage.OutputTokens)),
			"totalTokens":  int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}

	return doc
}

// Client implements model.LLM for Bedrock.
type Client struct {
	api          ConverseAPI
	defaultModel string
}

// Option configures a Client.
type Option func(*Client)

// WithDefaultModel overrides DefaultModelID for requests without a model.
func WithDefaultModel(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.defaultModel = id
		}
	}
}

// New creates a Client over an existing Converse API implementation.
func New(api ConverseAPI, opts ...Option) *Client {
	c := &Client{api: api, defaultModel: DefaultModelID}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig loads the ambient AWS configuration and creates a Client.
// An empty region defers to AWS_REGION and the shared config files.
func NewFromConfig(ctx context.Context, region string, opts ...Option) (*Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("failed to load AWS configuration: %w", err), errorsx.KindConfiguration)
	}

	return New(bedrockruntime.NewFromConfig(awsCfg), opts...), nil
}

// Provider returns the provider type.
func (c *Client) Provider() model.Provider {
	return model.ProviderBedrock
}

// Converse calls the Converse API and extracts the first text block.
func (c *Client) Converse(ctx context.Context, req *model.Request) (string, error) {
	if req != nil && req.ModelID == "" {
		withModel := *req
		withModel.ModelID = c.defaultModel
		req = &withModel
	}

	raw, err := Converse(ctx, c.api, req)
	if err != nil {
		return "", err
	}
	return ExtractText(raw)
}

// Close releases resources. The SDK client holds none that need closing.
func (c *Client) Close() error {
	return nil
}

var _ model.LLM = (*Client)(nil)
