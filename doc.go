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


// Package prometheus provides MCP tool servers for a financial research
// assistant.
//
// Two servers are shipped, each runnable on its own:
//
//   - analysis: extract_research_keywords pulls (security, theme, context)
//     records out of financial text, and generate_research_plan turns a
//     research prompt into a list of web searches. Both run on a hosted LLM
//     (AWS Bedrock or Google Gemini).
//   - research: web_search runs one query against Tavily and returns the
//     title, url and content of each hit.
//
// Start a server over stdio:
//
//	prometheus analysis
//	prometheus research
//
// Or over streamable HTTP:
//
//	prometheus --transport http --address 127.0.0.1:8080 research
//
// The provider adapters, tool services and transports live under pkg/ and
// can be used as a library:
//
//	llm, _ := bedrock.NewFromConfig(ctx, "us-east-1")
//	svc := analysis.NewService(llm, analysis.Config{})
//	out, err := svc.ExtractResearchKeywords(ctx, article, nil)
package prometheus
