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

// Package research implements the tools of the prometheus-research server.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/search"
)

// Result is one search hit reduced to the fields callers consume.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// WebSearchResponse is the output of web_search. Objective is present only
// when the caller supplied one; Results is never null.
type WebSearchResponse struct {
	SearchTerm string   `json:"search_term"`
	Objective  *string  `json:"objective,omitempty"`
	Results    []Result `json:"results"`
}

// Config is the fixed search policy of the research tools.
type Config struct {
	Depth      search.Depth
	MaxResults int
}

// Service runs the research tools against one searcher.
type Service struct {
	searcher search.Searcher
	cfg      Config
}

// NewService creates a Service. Unset policy values use the search
// package defaults.
func NewService(searcher search.Searcher, cfg Config) *Service {
	if cfg.Depth == "" {
		cfg.Depth = search.DepthBasic
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = search.DefaultMaxResults
	}
	return &Service{searcher: searcher, cfg: cfg}
}

// WebSearch runs one search and reshapes the provider results. Provider
// errors are returned unchanged.
func (s *Service) WebSearch(ctx context.Context, searchTerm string, objective *string) (*WebSearchResponse, error) {
	if strings.TrimSpace(searchTerm) == "" {
		return nil, errorsx.New(errorsx.KindInvalidArgument, "search_term is required")
	}
	if s.searcher == nil {
		return nil, errorsx.New(errorsx.KindConfiguration, "no search provider configured")
	}

	raw, err := s.searcher.Search(ctx, search.Request{
		Query:      searchTerm,
		Depth:      s.cfg.Depth,
		MaxResults: s.cfg.MaxResults,
	})
	if err != nil {
		return nil, err
	}

	results, err := Project(raw)
	if err != nil {
		return nil, err
	}

	return &WebSearchResponse{
		SearchTerm: searchTerm,
		Objective:  objective,
		Results:    results,
	}, nil
}

// WebSearchJSON is WebSearch serialized for the tool result.
func (s *Service) WebSearchJSON(ctx context.Context, searchTerm string, objective *string) (string, error) {
	resp, err := s.WebSearch(ctx, searchTerm, objective)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Project keeps title, url and content of each raw result in provider
// order. A missing or non-string field is errorsx.KindMalformedResponse.
func Project(raw *search.Response) ([]Result, error) {
	if raw == nil {
		return []Result{}, nil
	}

	results := make([]Result, 0, len(raw.Results))
	for i, item := range raw.Results {
		var r Result
		var err error
		if r.Title, err = stringField(item, i, "title"); err != nil {
			return nil, err
		}
		if r.URL, err = stringField(item, i, "url"); err != nil {
			return nil, err
		}
		if r.Content, err = stringField(item, i, "content"); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func stringField(item map[string]any, index int, name string) (string, error) {
	v, ok := item[name]
	if !ok {
		return "", errorsx.New(errorsx.KindMalformedResponse, "search result %d: missing %q", index, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", errorsx.Wrap(fmt.Errorf("search result %d: %q is %T, want string", index, name, v), errorsx.KindMalformedResponse)
	}
	return s, nil
}
