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

// Package httpclient is a small JSON-over-HTTP client used by the search
// providers. Requests are attempted exactly once.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout applies when no http.Client or timeout is supplied.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 4 << 10

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	doer      Doer
	timeout   time.Duration
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.doer = client
		}
	}
}

// WithDoer replaces the underlying transport entirely, typically in tests.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
// It has no effect on a custom Doer.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func New(opts ...Option) *Client {
	client := &Client{}

	for _, opt := range opts {
		opt(client)
	}

	if client.doer == nil {
		timeout := client.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client.doer = &http.Client{Timeout: timeout}
	} else if hc, ok := client.doer.(*http.Client); ok && client.timeout > 0 {
		withTimeout := *hc
		withTimeout.Timeout = client.timeout
		client.doer = &withTimeout
	}

	return client
}

// Do sends the request once, adding the configured User-Agent.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.doer.Do(req)
}

// PostJSON marshals body, POSTs it to url and decodes a 2xx response into
// out. A non-2xx status yields a *StatusError; an undecodable body yields a
// *DecodeError. Transport errors are returned as-is.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
