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

// Package search defines the web search capability used by the research
// tools. Providers return results untouched; reshaping is the caller's job.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Depth is the provider search depth.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthAdvanced Depth = "advanced"
)

// DefaultMaxResults is the result count used when a request sets none.
const DefaultMaxResults = 5

// ParseDepth parses a depth name. The empty string is DepthBasic.
func ParseDepth(s string) (Depth, error) {
	switch Depth(strings.ToLower(strings.TrimSpace(s))) {
	case "", DepthBasic:
		return DepthBasic, nil
	case DepthAdvanced:
		return DepthAdvanced, nil
	default:
		return "", fmt.Errorf("invalid search depth %q (valid: basic, advanced)", s)
	}
}

// Searcher runs one web search.
type Searcher interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

// Request is a single search query.
type Request struct {
	Query string

	// Depth defaults to DepthBasic.
	Depth Depth

	// MaxResults defaults to DefaultMaxResults when zero or negative.
	MaxResults int
}

// WithDefaults returns a copy with unset fields filled.
func (r Request) WithDefaults() Request {
	if r.Depth == "" {
		r.Depth = DepthBasic
	}
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	return r
}

// Response is the provider's raw result list, in provider order.
type Response struct {
	Query   string
	Results []map[string]any
}
