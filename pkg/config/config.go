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

// Package config loads the process configuration for the prometheus servers.
//
// A configuration file is optional. Without one, defaults alone form a valid
// configuration (bedrock for analysis, tavily for research, stdio transport):
//
//	logger:
//	  level: info
//	server:
//	  transport: stdio
//	llm:
//	  provider: gemini
//	  api_key: ${GEMINI_API_KEY}
//	tools:
//	  generate_research_plan:
//	    model: gemini-2.5-pro
//	search:
//	  search_depth: advanced
//	  max_results: 8
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prometheuslabstech/prometheus/pkg/model/bedrock"
	"github.com/prometheuslabstech/prometheus/pkg/model/gemini"
	"github.com/prometheuslabstech/prometheus/pkg/observability"
	"github.com/prometheuslabstech/prometheus/pkg/search"
)

// LLM providers.
const (
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
)

// Server transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Default plan models. The keyword tool uses the adapter's own default, a
// cheaper model; plan generation uses a stronger one.
const (
	DefaultBedrockPlanModel = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"
	DefaultGeminiPlanModel  = "gemini-2.5-flash"
)

const (
	DefaultMaxTokens       = 1024
	DefaultAddress         = "127.0.0.1:8080"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultSearchBaseURL   = "https://api.tavily.com"
	DefaultSearchAPIKeyEnv = "TAVILY_API_KEY"
	DefaultSearchTimeout   = 30 * time.Second
	MaxSearchResults       = 20
)

// Config is the root configuration.
type Config struct {
	Logger        LoggerConfig         `yaml:"logger"`
	Server        ServerConfig         `yaml:"server"`
	LLM           LLMConfig            `yaml:"llm"`
	Tools         ToolsConfig          `yaml:"tools"`
	Search        SearchConfig         `yaml:"search"`
	Observability observability.Config `yaml:"observability"`
}

// LoggerConfig configures process logging.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	// Transport is "stdio" (default) or "http" (streamable HTTP at /mcp).
	Transport string `yaml:"transport"`

	// Address is the listen address for the http transport.
	Address string `yaml:"address"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LLMConfig selects the provider backing the analysis tools.
type LLMConfig struct {
	Provider string `yaml:"provider"`

	// Region is the AWS region for bedrock. Empty defers to the ambient
	// AWS configuration chain.
	Region string `yaml:"region"`

	// APIKey is the Gemini API key. Empty falls back to GEMINI_API_KEY and
	// GOOGLE_API_KEY.
	APIKey string `yaml:"api_key"`
}

// ToolModelConfig is the per-tool model policy.
type ToolModelConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// ToolsConfig holds the model policy of each analysis tool.
type ToolsConfig struct {
	Keywords ToolModelConfig `yaml:"extract_research_keywords"`
	Plan     ToolModelConfig `yaml:"generate_research_plan"`
}

// SearchConfig configures the web search provider.
type SearchConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	SearchDepth string        `yaml:"search_depth"`
	MaxResults  int           `yaml:"max_results"`
	Timeout     time.Duration `yaml:"timeout"`

	// APIKeyEnv names the environment variable holding the API key. The key
	// itself is read at call time, never at load time.
	APIKeyEnv string `yaml:"api_key_env"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Logger.Format == "" {
		c.Logger.Format = "simple"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}

	if c.Server.Transport == "" {
		c.Server.Transport = TransportStdio
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderBedrock
	}
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)

	keywordsModel, planModel := bedrock.DefaultModelID, DefaultBedrockPlanModel
	if c.LLM.Provider == ProviderGemini {
		keywordsModel, planModel = gemini.DefaultModelID, DefaultGeminiPlanModel
	}
	c.Tools.Keywords.setDefaults(keywordsModel)
	c.Tools.Plan.setDefaults(planModel)

	if c.Search.Provider == "" {
		c.Search.Provider = "tavily"
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = DefaultSearchBaseURL
	}
	if c.Search.SearchDepth == "" {
		c.Search.SearchDepth = string(search.DepthBasic)
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = search.DefaultMaxResults
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = DefaultSearchTimeout
	}
	if c.Search.APIKeyEnv == "" {
		c.Search.APIKeyEnv = DefaultSearchAPIKeyEnv
	}

	c.Observability.SetDefaults()
}

func (c *ToolModelConfig) setDefaults(model string) {
	if c.Model == "" {
		c.Model = model
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
}

// Providers take max_tokens as an int32.
func (c *ToolModelConfig) validate(path string) error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("%s.max_tokens must be positive", path)
	}
	if c.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("%s.max_tokens must be at most %d, got %d", path, math.MaxInt32, c.MaxTokens)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("server.transport: invalid transport %q (valid: stdio, http)", c.Server.Transport)
	}
	if c.Server.Transport == TransportHTTP && c.Server.Address == "" {
		return fmt.Errorf("server.address is required for the http transport")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}

	switch c.LLM.Provider {
	case ProviderBedrock, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider: invalid provider %q (valid: bedrock, gemini)", c.LLM.Provider)
	}

	if err := c.Tools.Keywords.validate("tools.extract_research_keywords"); err != nil {
		return err
	}
	if err := c.Tools.Plan.validate("tools.generate_research_plan"); err != nil {
		return err
	}

	if c.Search.Provider != "tavily" {
		return fmt.Errorf("search.provider: invalid provider %q (valid: tavily)", c.Search.Provider)
	}
	if _, err := search.ParseDepth(c.Search.SearchDepth); err != nil {
		return fmt.Errorf("search.search_depth: %w", err)
	}
	if c.Search.MaxResults < 1 || c.Search.MaxResults > MaxSearchResults {
		return fmt.Errorf("search.max_results must be between 1 and %d, got %d", MaxSearchResults, c.Search.MaxResults)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}
