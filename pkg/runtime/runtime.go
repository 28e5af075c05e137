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

// Package runtime owns the provider clients of one server process.
//
// Clients are built once at startup, injected into the tool services and
// released at shutdown. Nothing is constructed per call.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheuslabstech/prometheus/pkg/analysis"
	"github.com/prometheuslabstech/prometheus/pkg/config"
	"github.com/prometheuslabstech/prometheus/pkg/logger"
	"github.com/prometheuslabstech/prometheus/pkg/model"
	"github.com/prometheuslabstech/prometheus/pkg/research"
	"github.com/prometheuslabstech/prometheus/pkg/search"
)

// Clients is the process-scoped client set.
type Clients struct {
	LLM    model.LLM
	Search search.Searcher

	closeOnce sync.Once
	closeErr  error
}

// Options overrides client construction, mainly for tests.
type Options struct {
	LLMFactory    LLMFactory
	SearchFactory SearchFactory
}

func (o Options) withDefaults() Options {
	if o.LLMFactory == nil {
		o.LLMFactory = DefaultLLMFactory
	}
	if o.SearchFactory == nil {
		o.SearchFactory = DefaultSearchFactory
	}
	return o
}

// NewAnalysisClients builds the configured LLM.
func NewAnalysisClients(ctx context.Context, cfg *config.Config, opts Options) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	opts = opts.withDefaults()

	llm, err := opts.LLMFactory(ctx, &cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
	}

	logger.GetLogger().Info("LLM client ready",
		"provider", llm.Provider(),
		"keywords_model", cfg.Tools.Keywords.Model,
		"plan_model", cfg.Tools.Plan.Model)
	return &Clients{LLM: llm}, nil
}

// NewResearchClients builds the configured searcher.
func NewResearchClients(cfg *config.Config, opts Options) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	opts = opts.withDefaults()

	searcher, err := opts.SearchFactory(&cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s searcher: %w", cfg.Search.Provider, err)
	}

	logger.GetLogger().Info("Search client ready",
		"provider", cfg.Search.Provider,
		"depth", cfg.Search.SearchDepth,
		"max_results", cfg.Search.MaxResults)
	return &Clients{Search: searcher}, nil
}

// AnalysisService wires the LLM into the analysis tools with the per-tool
// model policy from cfg.
func (c *Clients) AnalysisService(cfg *config.Config) *analysis.Service {
	return analysis.NewService(c.LLM, analysis.Config{
		Keywords: analysis.ToolModel{ModelID: cfg.Tools.Keywords.Model, MaxTokens: cfg.Tools.Keywords.MaxTokens},
		Plan:     analysis.ToolModel{ModelID: cfg.Tools.Plan.Model, MaxTokens: cfg.Tools.Plan.MaxTokens},
	})
}

// ResearchService wires the searcher into the research tools.
func (c *Clients) ResearchService(cfg *config.Config) (*research.Service, error) {
	depth, err := search.ParseDepth(cfg.Search.SearchDepth)
	if err != nil {
		return nil, err
	}
	return research.NewService(c.Search, research.Config{Depth: depth, MaxResults: cfg.Search.MaxResults}), nil
}

// Close releases the clients. Safe to call more than once.
func (c *Clients) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		var errs []error
		if c.LLM != nil {
			if err := c.LLM.Close(); err != nil {
				errs = append(errs, fmt.Errorf("llm cleanup: %w", err))
			}
		}
		if closer, ok := c.Search.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("search cleanup: %w", err))
			}
		}
		c.closeErr = errors.Join(errs...)
	})
	return c.closeErr
}
