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

package runtime

import (
	"context"
	"fmt"

	"github.com/prometheuslabstech/prometheus/pkg/config"
	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/model"
	"github.com/prometheuslabstech/prometheus/pkg/model/bedrock"
	"github.com/prometheuslabstech/prometheus/pkg/model/gemini"
	"github.com/prometheuslabstech/prometheus/pkg/search"
	"github.com/prometheuslabstech/prometheus/pkg/search/tavily"
)

// LLMFactory creates the LLM backing the analysis tools.
type LLMFactory func(ctx context.Context, cfg *config.LLMConfig) (model.LLM, error)

// SearchFactory creates the searcher backing the research tools.
type SearchFactory func(cfg *config.SearchConfig) (search.Searcher, error)

// DefaultLLMFactory creates LLM instances based on provider type.
func DefaultLLMFactory(ctx context.Context, cfg *config.LLMConfig) (model.LLM, error) {
	switch cfg.Provider {
	case config.ProviderBedrock:
		llm, err := bedrock.NewFromConfig(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return llm, nil

	case config.ProviderGemini:
		llm, err := gemini.New(ctx, gemini.Config{APIKey: cfg.APIKey})
		if err != nil {
			return nil, err
		}
		return llm, nil

	default:
		return nil, errorsx.New(errorsx.KindConfiguration, "unsupported LLM provider: %q", cfg.Provider)
	}
}

// DefaultSearchFactory creates searchers based on provider type. The API key
// is not read here; Tavily resolves it on every call.
func DefaultSearchFactory(cfg *config.SearchConfig) (search.Searcher, error) {
	switch cfg.Provider {
	case "", "tavily":
		return tavily.New(tavily.Config{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Timeout:   cfg.Timeout,
		}), nil

	default:
		return nil, errorsx.Wrap(fmt.Errorf("unsupported search provider: %q", cfg.Provider), errorsx.KindConfiguration)
	}
}
