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

// Package tavily implements search.Searcher over the Tavily REST API.
package tavily

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/httpclient"
	"github.com/prometheuslabstech/prometheus/pkg/search"
)

const (
	DefaultBaseURL   = "https://api.tavily.com"
	DefaultAPIKeyEnv = "TAVILY_API_KEY"
	DefaultTimeout   = 30 * time.Second

	userAgent = "prometheus-research"
)

// Config contains configuration for the Tavily searcher.
type Config struct {
	BaseURL string

	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv string

	Timeout time.Duration
}

// Searcher is a Tavily search client. The API key is resolved on every
// call, so a key exported after startup is picked up.
type Searcher struct {
	baseURL   string
	apiKeyEnv string
	timeout   time.Duration
	lookupEnv func(string) (string, bool)
	http      *httpclient.Client
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLookupEnv replaces os.LookupEnv for key resolution.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(s *Searcher) {
		if fn != nil {
			s.lookupEnv = fn
		}
	}
}

// WithHTTPOptions passes options to the underlying httpclient.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(s *Searcher) {
		base := []httpclient.Option{httpclient.WithTimeout(s.timeout), httpclient.WithUserAgent(userAgent)}
		s.http = httpclient.New(append(base, opts...)...)
	}
}

// New creates a Tavily searcher.
func New(cfg Config, opts ...Option) *Searcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Searcher{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKeyEnv: cfg.APIKeyEnv,
		timeout:   cfg.Timeout,
		lookupEnv: os.LookupEnv,
		http:      httpclient.New(httpclient.WithTimeout(cfg.Timeout), httpclient.WithUserAgent(userAgent)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Query   string           `json:"query"`
	Results []map[string]any `json:"results"`
}

// Search performs one search. A missing API key is an
// errorsx.KindConfiguration error raised before any request is sent.
func (s *Searcher) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	apiKey, ok := s.lookupEnv(s.apiKeyEnv)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return nil, errorsx.New(errorsx.KindConfiguration, "%s environment variable is not set; get an API key at https://tavily.com", s.apiKeyEnv)
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, errorsx.New(errorsx.KindInvalidArgument, "search query is required")
	}
	req = req.WithDefaults()

	var out searchResponse
	err := s.http.PostJSON(ctx, s.baseURL+"/search",
		map[string]string{"Authorization": "Bearer " + apiKey},
		searchRequest{Query: req.Query, SearchDepth: string(req.Depth), MaxResults: req.MaxResults},
		&out)
	if err != nil {
		var de *httpclient.DecodeError
		if errors.As(err, &de) {
			return nil, errorsx.Wrap(fmt.Errorf("tavily: %w", err), errorsx.KindMalformedResponse)
		}
		return nil, errorsx.Wrap(fmt.Errorf("tavily: %w", err), errorsx.KindProviderTransport)
	}

	query := out.Query
	if query == "" {
		query = req.Query
	}
	results := out.Results
	if results == nil {
		results = []map[string]any{}
	}
	return &search.Response{Query: query, Results: results}, nil
}

var _ search.Searcher = (*Searcher)(nil)
