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


// Package server exposes tool sets as MCP servers over stdio or
// streamable HTTP.
package server

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Info identifies an MCP server to its clients.
type Info struct {
	Name         string
	Version      string
	Instructions string
}

// New creates an MCP server advertising the given tools. Tool handler
// panics are recovered and reported as tool errors.
func New(info Info, tools ...mcpserver.ServerTool) *mcpserver.MCPServer {
	opts := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	}
	if info.Instructions != "" {
		opts = append(opts, mcpserver.WithInstructions(info.Instructions))
	}

	s := mcpserver.NewMCPServer(info.Name, info.Version, opts...)
	if len(tools) > 0 {
		s.AddTools(tools...)
	}
	return s
}
