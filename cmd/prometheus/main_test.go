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


package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheuslabstech/prometheus/pkg/config"
)

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing command", args: nil, want: "expected one of"},
		{name: "unknown command", args: []string{"trading"}, want: "trading"},
		{name: "unknown flag", args: []string{"--verbose", "analysis"}, want: "--verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), tt.want)
			assert.Contains(t, stderr.String(), "Usage: prometheus")
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "prometheus ")
	assert.Empty(t, stderr.String())
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"--help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "analysis")
	assert.Contains(t, stdout.String(), "research")
}

func TestRunConfigErrors(t *testing.T) {
	dir := t.TempDir()
	badTransport := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badTransport, []byte("server:\n  transport: grpc\n"), 0o600))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing file", args: []string{"--config", filepath.Join(dir, "missing.yaml"), "analysis"}, want: "failed to read config file"},
		{name: "invalid file", args: []string{"--config", badTransport, "research"}, want: `invalid transport "grpc"`},
		{name: "invalid override", args: []string{"--transport", "websocket", "research"}, want: `invalid transport "websocket"`},
		{name: "invalid log level", args: []string{"--log-level", "loud", "research"}, want: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			assert.Equal(t, 1, run(tt.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestResolveLogSettings(t *testing.T) {
	env := map[string]string{LogLevelEnvVar: "warn", LogFormatEnvVar: ""}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	file := &config.LoggerConfig{Level: "error", File: "from-config.log", Format: "json"}

	tests := []struct {
		name string
		cli  CLI
		file *config.LoggerConfig
		want logSettings
	}{
		{
			name: "defaults",
			want: logSettings{Level: "warn", Format: "simple"},
		},
		{
			name: "config fills what env leaves unset",
			file: file,
			want: logSettings{Level: "warn", File: "from-config.log", Format: "json"},
		},
		{
			name: "flags win",
			cli:  CLI{LogLevel: "debug", LogFile: "cli.log", LogFormat: "verbose"},
			file: file,
			want: logSettings{Level: "debug", File: "cli.log", Format: "verbose"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveLogSettings(&tt.cli, lookup, tt.file))
		})
	}
}
