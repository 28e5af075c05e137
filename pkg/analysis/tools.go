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

package analysis

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/prometheuslabstech/prometheus/pkg/tool/functiontool"
)

const (
	ServerName = "prometheus-analysis"

	Instructions = "Financial analysis tools for investment research and decision-making. " +
		"Provides text analysis capabilities for processing news articles, " +
		"earnings reports, analyst notes, and other financial documents."

	ToolExtractResearchKeywords = "extract_research_keywords"
	ToolGenerateResearchPlan    = "generate_research_plan"
)

// KeywordsArgs are the arguments of extract_research_keywords.
type KeywordsArgs struct {
	SourceText        string  `json:"source_text" jsonschema:"required" jsonschema_description:"The source text to extract keywords from (article, report, filing, etc.)"`
	AdditionalContext *string `json:"additional_context,omitempty" jsonschema_description:"Optional additional context such as a security or sector to help focus the extraction."`
}

// PlanArgs are the arguments of generate_research_plan.
type PlanArgs struct {
	Prompt  string  `json:"prompt" jsonschema:"required" jsonschema_description:"The research question or topic to plan searches for."`
	Context *string `json:"context,omitempty" jsonschema_description:"Optional supporting context such as a document body, article text, or background information."`
}

const keywordsDescription = `Extract structured financial keywords and topics from text for deeper research.

Use this as a first step before calling a deep research or search tool.
Returns a JSON object with a "keywords" key containing a list of objects,
each with "security", "theme", and "context" fields pairing a company
with a relevant theme and brief explanation.`

const planDescription = `Generate a structured research plan with web search terms and objectives.

Given a research prompt and optional context, returns a JSON list of
searches to perform. Each entry has a "search_term" and an "objective".`

// Tools returns the MCP tool definitions of the analysis server.
func (s *Service) Tools(opts ...functiontool.Option) ([]server.ServerTool, error) {
	keywords, err := functiontool.New(
		functiontool.Config{
			Name:        ToolExtractResearchKeywords,
			Description: keywordsDescription,
			ReadOnly:    true,
		},
		func(ctx context.Context, args KeywordsArgs) (string, error) {
			return s.ExtractResearchKeywords(ctx, args.SourceText, args.AdditionalContext)
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	plan, err := functiontool.New(
		functiontool.Config{
			Name:        ToolGenerateResearchPlan,
			Description: planDescription,
			ReadOnly:    true,
		},
		func(ctx context.Context, args PlanArgs) (string, error) {
			return s.GenerateResearchPlan(ctx, args.Prompt, args.Context)
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	return []server.ServerTool{keywords, plan}, nil
}
