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


// Command prometheus runs the prometheus MCP tool servers.
//
// Usage:
//
//	prometheus analysis
//	prometheus research
//	prometheus --config prometheus.yaml --transport http research
//	prometheus version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/prometheuslabstech/prometheus"
)

// CLI defines the command-line interface.
type CLI struct {
	Analysis AnalysisCmd `cmd:"" help:"Run the analysis MCP server (extract_research_keywords, generate_research_plan)."`
	Research ResearchCmd `cmd:"" help:"Run the research MCP server (web_search)."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)."`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose, json)."`
	Transport string `help:"MCP transport (stdio, http). Overrides server.transport."`
	Address   string `help:"Listen address for the http transport. Overrides server.address."`
}

// app is bound into every command's Run.
type app struct {
	cli    *CLI
	stdout io.Writer
	stderr io.Writer
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	_, err := fmt.Fprintln(a.stdout, prometheus.GetVersion())
	return err
}

type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args and runs the selected command, returning the process exit
// status.
func run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI

	// kong calls Exit after --help; unwind instead of leaving the process.
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	parser, err := kong.New(&cli,
		kong.Name("prometheus"),
		kong.Description("MCP tool servers for financial research."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "prometheus: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "prometheus: error: %v\n", err)
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			parser.Stdout = stderr
			_ = parseErr.Context.PrintUsage(true)
		}
		return 1
	}

	if err := kctx.Run(&app{cli: &cli, stdout: stdout, stderr: stderr}); err != nil {
		fmt.Fprintf(stderr, "prometheus: %v\n", err)
		return 1
	}
	return 0
}
