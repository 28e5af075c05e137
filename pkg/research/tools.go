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

package research

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/prometheuslabstech/prometheus/pkg/tool/functiontool"
)

const (
	ServerName = "prometheus-research"

	Instructions = "Web research tools for financial investigation. " +
		"Run the searches of a research plan and collect titled, sourced snippets."

	ToolWebSearch = "web_search"
)

// WebSearchArgs are the arguments of web_search.
type WebSearchArgs struct {
	SearchTerm string  `json:"search_term" jsonschema:"required" jsonschema_description:"The query to search the web for."`
	Objective  *string `json:"objective,omitempty" jsonschema_description:"Optional note on what the search should find. Echoed back in the result."`
}

const webSearchDescription = `Search the web for a research query.

Returns a JSON object with the "search_term", the "objective" when one was
given, and a "results" list of objects with "title", "url" and "content".
Pairs with the search entries produced by generate_research_plan.`

// Tools returns the MCP tool definitions of the research server.
func (s *Service) Tools(opts ...functiontool.Option) ([]server.ServerTool, error) {
	webSearch, err := functiontool.New(
		functiontool.Config{
			Name:        ToolWebSearch,
			Description: webSearchDescription,
			ReadOnly:    true,
		},
		func(ctx context.Context, args WebSearchArgs) (string, error) {
			return s.WebSearchJSON(ctx, args.SearchTerm, args.Objective)
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return []server.ServerTool{webSearch}, nil
}
