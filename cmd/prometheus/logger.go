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
	"fmt"
	"os"

	"github.com/prometheuslabstech/prometheus/pkg/config"
	"github.com/prometheuslabstech/prometheus/pkg/logger"
)

const (
	LogFileEnvVar   = "LOG_FILE"
	LogLevelEnvVar  = "LOG_LEVEL"
	LogFormatEnvVar = "LOG_FORMAT"
)

// logSettings is the resolved logger configuration.
type logSettings struct {
	Level  string
	File   string
	Format string
}

// resolveLogSettings applies the precedence CLI flag > env var > config file
// > default to each field independently.
func resolveLogSettings(cli *CLI, lookupEnv func(string) (string, bool), file *config.LoggerConfig) logSettings {
	pick := func(flag, env, fromFile, def string) string {
		if flag != "" {
			return flag
		}
		if v, ok := lookupEnv(env); ok && v != "" {
			return v
		}
		if fromFile != "" {
			return fromFile
		}
		return def
	}

	var fileCfg config.LoggerConfig
	if file != nil {
		fileCfg = *file
	}

	return logSettings{
		Level:  pick(cli.LogLevel, LogLevelEnvVar, fileCfg.Level, "info"),
		File:   pick(cli.LogFile, LogFileEnvVar, fileCfg.File, ""),
		Format: pick(cli.LogFormat, LogFormatEnvVar, fileCfg.Format, logger.FormatSimple),
	}
}

// initLogger installs the process logger. Output goes to stderr or the log
// file, never stdout. The returned cleanup closes the log file, if any.
func initLogger(s logSettings) (func(), error) {
	level, err := logger.ParseLevel(s.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	output, cleanup := os.Stderr, func() {}
	if s.File != "" {
		file, closeFile, err := logger.OpenLogFile(s.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output, cleanup = file, closeFile
	}

	logger.Init(level, output, s.Format)
	return cleanup, nil
}
