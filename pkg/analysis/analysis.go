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

// Package analysis implements the tools of the prometheus-analysis server:
// extract_research_keywords and generate_research_plan.
//
// Both tools make exactly one model call through model.LLM. Keyword output is
// validated against a fixed schema and re-serialized; plan output is passed
// through as the model produced it.
package analysis

import (
	"context"
	"strings"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/logger"
	"github.com/prometheuslabstech/prometheus/pkg/model"
	"github.com/prometheuslabstech/prometheus/pkg/prompt"
)

// ToolModel is the model policy of one tool. An empty ModelID uses the
// adapter's default; MaxTokens <= 0 uses model.DefaultMaxTokens.
type ToolModel struct {
	ModelID   string
	MaxTokens int
}

// Config holds the per-tool model policies. Plan generation is expected to
// run on a stronger model than keyword extraction.
type Config struct {
	Keywords ToolModel
	Plan     ToolModel
}

// Service runs the analysis tools against one LLM.
type Service struct {
	llm      model.LLM
	keywords ToolModel
	plan     ToolModel
}

// NewService creates a Service. The LLM is owned by the caller.
func NewService(llm model.LLM, cfg Config) *Service {
	return &Service{llm: llm, keywords: cfg.Keywords, plan: cfg.Plan}
}

// ExtractResearchKeywords asks the model for security/theme pairs in
// sourceText and returns the validated, re-serialized result.
func (s *Service) ExtractResearchKeywords(ctx context.Context, sourceText string, additionalContext *string) (string, error) {
	if strings.TrimSpace(sourceText) == "" {
		return "", errorsx.New(errorsx.KindInvalidArgument, "source_text is required")
	}

	text, err := s.converse(ctx, s.keywords, KeywordsMessage(sourceText, additionalContext), prompt.ExtractResearchKeywords)
	if err != nil {
		return "", err
	}

	validated, err := ValidateKeywords(text)
	if err != nil {
		return "", err
	}

	logger.GetLogger().Debug("Keywords validated", "count", len(validated.Keywords))
	return validated.JSON()
}

// GenerateResearchPlan asks the model for a list of web searches. The
// result is returned unvalidated; callers must tolerate malformed JSON.
func (s *Service) GenerateResearchPlan(ctx context.Context, researchPrompt string, planContext *string) (string, error) {
	if strings.TrimSpace(researchPrompt) == "" {
		return "", errorsx.New(errorsx.KindInvalidArgument, "prompt is required")
	}

	return s.converse(ctx, s.plan, PlanMessage(researchPrompt, planContext), prompt.GenerateResearchPlan)
}

func (s *Service) converse(ctx context.Context, policy ToolModel, userMessage, systemPrompt string) (string, error) {
	if s.llm == nil {
		return "", errorsx.New(errorsx.KindConfiguration, "no language model configured")
	}

	logger.GetLogger().Debug("Calling model",
		"provider", s.llm.Provider(),
		"model", policy.ModelID,
		"message_bytes", len(userMessage))

	return s.llm.Converse(ctx, &model.Request{
		UserMessage:  userMessage,
		SystemPrompt: systemPrompt,
		ModelID:      policy.ModelID,
		MaxTokens:    policy.MaxTokens,
	})
}
