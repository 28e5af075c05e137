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

package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		options     []Option
		wantTimeout time.Duration
	}{
		{
			name:        "default_configuration",
			wantTimeout: DefaultTimeout,
		},
		{
			name:        "custom_timeout",
			options:     []Option{WithTimeout(5 * time.Second)},
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "custom_http_client",
			options:     []Option{WithHTTPClient(&http.Client{Timeout: 30 * time.Second})},
			wantTimeout: 30 * time.Second,
		},
		{
			name: "timeout_overrides_http_client",
			options: []Option{
				WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
				WithTimeout(2 * time.Second),
			},
			wantTimeout: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.options...)
			hc, ok := client.doer.(*http.Client)
			require.True(t, ok)
			assert.Equal(t, tt.wantTimeout, hc.Timeout)
		})
	}
}

func TestPostJSON(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "prometheus/test", r.Header.Get("User-Agent"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "AAPL", body["query"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(WithUserAgent("prometheus/test"))
	var out struct {
		OK bool `json:"ok"`
	}
	err := client.PostJSON(context.Background(), server.URL, map[string]string{"Authorization": "Bearer k"},
		map[string]any{"query": "AAPL"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostJSONErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server_error_is_not_retried",
			status: http.StatusServiceUnavailable,
			body:   `{"detail":"overloaded"}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
				assert.Contains(t, err.Error(), "overloaded")
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "HTTP 401", err.Error())
			},
		},
		{
			name:   "bad_json",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				var de *DecodeError
				require.True(t, errors.As(err, &de))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out map[string]any
			err := New().PostJSON(context.Background(), server.URL, nil, map[string]any{}, &out)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestPostJSONTransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	client := New(WithDoer(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, cause
	})))

	err := client.PostJSON(context.Background(), "http://example.invalid", nil, map[string]any{}, nil)
	assert.ErrorIs(t, err, cause)
}
